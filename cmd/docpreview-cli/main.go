package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	docpreview "github.com/goliatone/go-docpreview"
	"github.com/goliatone/go-docpreview/pkg/collab"
	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/renderers/tui"
	"github.com/goliatone/go-docpreview/pkg/session"
)

func main() {
	schemas := flag.String("schemas", "schemas", "directory holding preview schema documents")
	docType := flag.String("type", "", "document type id to open")
	openapi := flag.String("openapi", "", "derive the schema from an OpenAPI document instead of -schemas")
	component := flag.String("component", "", "component schema name inside the OpenAPI document")
	dataPath := flag.String("data", "", "JSON file holding the document data record")
	renderer := flag.String("renderer", "tui", "renderer to use: tui, html, or text")
	output := flag.String("output", "", "output file (stdout if empty)")
	backend := flag.String("backend", "", "base URL of a save/suggest backend (local save if empty)")
	subject := flag.String("subject", "", "subject identifier forwarded to collaborators")
	showOriginal := flag.Bool("show-original", false, "render original values next to changed ones")
	flag.Parse()

	ctx := context.Background()

	preview, err := loadPreview(ctx, *schemas, *docType, *openapi, *component)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	data, err := loadRecord(*dataPath)
	if err != nil {
		log.Fatalf("Failed to load data record: %v", err)
	}

	collaborators, err := buildCollaborators(*backend, *subject, *output)
	if err != nil {
		log.Fatalf("Failed to configure backend: %v", err)
	}

	sess, err := docpreview.NewSession(preview, data, collaborators, session.WithSubjectID(*subject))
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}

	out, err := docpreview.Render(ctx, nil, *renderer, sess, docpreview.RenderOptions{
		ShowOriginal: *showOriginal,
	})
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			fmt.Println("Cancelled; no changes saved.")
			return
		}
		log.Fatalf("Failed to render: %v", err)
	}

	if *output != "" && *renderer != "tui" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Preview written to %s\n", *output)
		return
	}
	fmt.Println(string(out))
}

func loadPreview(ctx context.Context, schemasDir, docType, openapiPath, component string) (docpreview.Preview, error) {
	if openapiPath != "" {
		if component == "" {
			return docpreview.Preview{}, errors.New("-component is required with -openapi")
		}
		data, err := os.ReadFile(openapiPath)
		if err != nil {
			return docpreview.Preview{}, err
		}
		preview, err := docpreview.ImportOpenAPI(ctx, data, component)
		if err != nil {
			return docpreview.Preview{}, err
		}
		return *preview, nil
	}

	if docType == "" {
		return docpreview.Preview{}, errors.New("-type is required")
	}
	store, err := docpreview.LoadSchemas(os.DirFS(schemasDir))
	if err != nil {
		return docpreview.Preview{}, err
	}
	preview, ok := store.Preview(docType)
	if !ok {
		return docpreview.Preview{}, fmt.Errorf("document type %q not found (known: %v)", docType, store.IDs())
	}
	return preview, nil
}

func loadRecord(path string) (docpreview.Record, error) {
	if path == "" {
		return docpreview.Record{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record docpreview.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// buildCollaborators wires the session's save and suggest hooks. With a
// backend URL both go over HTTP; otherwise saving writes the approved draft
// to the output file and suggestions are unavailable.
func buildCollaborators(backend, subject, output string) (docpreview.Collaborators, error) {
	if backend == "" {
		return docpreview.Collaborators{
			Save: func(_ context.Context, draft document.Record) (*docpreview.SaveResult, error) {
				if output == "" {
					return &docpreview.SaveResult{}, nil
				}
				data, err := json.MarshalIndent(map[string]any(draft), "", "  ")
				if err != nil {
					return nil, err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return nil, err
				}
				return &docpreview.SaveResult{Ref: output}, nil
			},
		}, nil
	}

	client, err := collab.New(backend)
	if err != nil {
		return docpreview.Collaborators{}, err
	}
	return docpreview.Collaborators{
		Save:    client.Save(subject),
		Suggest: client.Suggest(),
	}, nil
}
