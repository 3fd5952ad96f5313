package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"strconv"

	"pgm_storefront/internal/domain/models"
)

// Form builds a multipart body. Scalars are appended as they are, nested
// values are JSON-encoded first and files become file parts.
type Form struct {
	parts []formPart
	err   error
}

type formPart struct {
	name  string
	value string
	file  *models.File
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Field(name, value string) *Form {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

// Optional appends the field only when value is not empty.
func (f *Form) Optional(name, value string) *Form {
	if value == "" {
		return f
	}
	return f.Field(name, value)
}

func (f *Form) Int(name string, v int64) *Form {
	return f.Field(name, strconv.FormatInt(v, 10))
}

func (f *Form) Float(name string, v float64) *Form {
	return f.Field(name, strconv.FormatFloat(v, 'f', -1, 64))
}

// Bool appends the field when v is set.
func (f *Form) Bool(name string, v *bool) *Form {
	if v == nil {
		return f
	}
	return f.Field(name, strconv.FormatBool(*v))
}

// JSON appends v encoded as JSON; a nil value becomes an empty field.
func (f *Form) JSON(name string, v any) *Form {
	if isNil(v) {
		return f.Field(name, "")
	}

	raw, err := json.Marshal(v)
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("failed to encode field %q: %w", name, err)
	}
	return f.Field(name, string(raw))
}

func (f *Form) File(name string, file *models.File) *Form {
	if file == nil {
		return f
	}
	f.parts = append(f.parts, formPart{name: name, file: file})
	return f
}

func (f *Form) Files(name string, files []models.File) *Form {
	for i := range files {
		f.File(name, &files[i])
	}
	return f
}

// Encode renders the body and its content type, boundary included.
func (f *Form) Encode() ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range f.parts {
		if p.file == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", fmt.Errorf("failed to write field %q: %w", p.name, err)
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.name, p.file.Name))
		ct := p.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %q: %w", p.name, err)
		}
		if _, err := part.Write(p.file.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write part %q: %w", p.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
