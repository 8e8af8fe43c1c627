// Package schema defines the declarative description of an editable preview
// document: its sections, fields, and display hints. Schemas carry no data;
// pairing a schema with a data record is the session package's job.
package schema
