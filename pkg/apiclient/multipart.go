package apiclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

type formField struct {
	name  string
	value string
}

type formFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

// Form is a multipart body built up field by field. Parts are written in
// the order they were added.
type Form struct {
	fields []formField
	files  []formFile
}

// NewForm creates an empty multipart form
func NewForm() *Form {
	return &Form{}
}

// AddField appends a scalar field
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part
func (f *Form) AddFile(field, filename, contentType string, data []byte) *Form {
	f.files = append(f.files, formFile{
		field:       field,
		filename:    filename,
		contentType: contentType,
		data:        data,
	})
	return f
}

// FieldValue returns the first value added for name
func (f *Form) FieldValue(name string) (string, bool) {
	for _, field := range f.fields {
		if field.name == name {
			return field.value, true
		}
	}
	return "", false
}

// FileCount returns how many files were added under field
func (f *Form) FileCount(field string) int {
	n := 0
	for _, file := range f.files {
		if file.field == field {
			n++
		}
	}
	return n
}

// Encode writes the form and returns the body and its content type
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.filename))
		contentType := file.contentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part for %s: %w", file.filename, err)
		}
		if _, err := part.Write(file.data); err != nil {
			return nil, "", fmt.Errorf("failed to write %s: %w", file.filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}
