/*
Copyright 2024-2025 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package handler

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/nscaledev/apichallenges/pkg/constants"
	"github.com/nscaledev/apichallenges/pkg/server/store"
)

// document is a flat write body, either representation, keyed by field.
type document map[string]value

type value struct {
	// raw is the JSON encoding, nil for XML.
	raw json.RawMessage
	// text is the XML character data.
	text string
}

// jsonKind names a JSON value's type the way the service reports it.
func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "NULL"
	}

	switch trimmed[0] {
	case '"':
		return "STRING"
	case 't', 'f':
		return "BOOLEAN"
	case 'n':
		return "NULL"
	case '{':
		return "OBJECT"
	case '[':
		return "ARRAY"
	}

	return "NUMBER"
}

func (v value) isJSON() bool {
	return v.raw != nil
}

// isNull reports an explicit JSON null, which Unmarshal would silently accept
// as the zero value.
func (v value) isNull() bool {
	return v.isJSON() && bytes.Equal(bytes.TrimSpace(v.raw), []byte("null"))
}

func (d document) stringField(name string) (*string, error) {
	v, ok := d[name]
	if !ok {
		return nil, nil
	}

	if !v.isJSON() {
		return &v.text, nil
	}

	var s string

	if v.isNull() {
		return nil, HTTPBadRequest(fmt.Sprintf("Failed Validation: %s should be STRING but was NULL", name))
	}

	if err := json.Unmarshal(v.raw, &s); err != nil {
		return nil, HTTPBadRequest(fmt.Sprintf("Failed Validation: %s should be STRING but was %s", name, jsonKind(v.raw)))
	}

	return &s, nil
}

func (d document) boolField(name string) (*bool, error) {
	v, ok := d[name]
	if !ok {
		return nil, nil
	}

	var b bool

	if v.isNull() {
		return nil, HTTPBadRequest(fmt.Sprintf("Failed Validation: %s should be BOOLEAN but was NULL", name))
	}

	if v.isJSON() {
		if err := json.Unmarshal(v.raw, &b); err != nil {
			return nil, HTTPBadRequest(fmt.Sprintf("Failed Validation: %s should be BOOLEAN but was %s", name, jsonKind(v.raw)))
		}

		return &b, nil
	}

	switch strings.TrimSpace(v.text) {
	case "true":
		b = true
	case "false":
	default:
		return nil, HTTPBadRequest(fmt.Sprintf("Failed Validation: %s should be BOOLEAN but was STRING", name))
	}

	return &b, nil
}

func (d document) intField(name string) (*int, error) {
	v, ok := d[name]
	if !ok {
		return nil, nil
	}

	text := v.text

	if v.isJSON() {
		text = strings.Trim(string(bytes.TrimSpace(v.raw)), `"`)
	}

	i, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil, HTTPBadRequest(fmt.Sprintf("Failed Validation: %s should be NUMBER", name))
	}

	return &i, nil
}

// only rejects fields that aren't allowed.
func (d document) only(allowed ...string) error {
	for name := range d {
		if !slices.Contains(allowed, name) {
			return HTTPBadRequest("Could not find field: " + name)
		}
	}

	return nil
}

// readBody reads a size limited body and reports its media type, absent
// means JSON.
func readBody(r *http.Request, limit int64, allowXML bool) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, "", err
	}

	if int64(len(data)) > limit {
		return nil, "", HTTPRequestEntityTooLarge(fmt.Sprintf("Error: Request body too large, max allowed is %d bytes", limit))
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return data, constants.MIMEJSON, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, "", HTTPUnsupportedMediaType("Unsupported Content Type - " + contentType)
	}

	switch mediaType {
	case constants.MIMEJSON:
		return data, mediaType, nil
	case constants.MIMEXML, "text/xml":
		if allowXML {
			return data, constants.MIMEXML, nil
		}
	}

	return nil, "", HTTPUnsupportedMediaType("Unsupported Content Type - " + mediaType)
}

// readDocument parses a flat JSON object, or an XML element whose children
// are the fields.
func (h *Handler) readDocument(r *http.Request) (document, error) {
	data, mediaType, err := readBody(r, h.options.MaxBodyBytes, true)
	if err != nil {
		return nil, err
	}

	if mediaType == constants.MIMEXML {
		return parseXML(data)
	}

	var fields map[string]json.RawMessage

	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, HTTPBadRequest("Failed Validation: Invalid JSON")
	}

	d := make(document, len(fields))

	for name, raw := range fields {
		if raw == nil {
			raw = json.RawMessage("null")
		}

		d[name] = value{raw: raw}
	}

	return d, nil
}

func parseXML(data []byte) (document, error) {
	invalid := HTTPBadRequest("Failed Validation: Invalid XML")

	decoder := xml.NewDecoder(bytes.NewReader(data))

	d := document{}

	depth := 0

	var (
		field string
		text  strings.Builder
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, invalid
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++

			if depth == 2 {
				field = t.Name.Local
				text.Reset()
			} else if depth > 2 {
				return nil, invalid
			}
		case xml.CharData:
			if depth == 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				d[field] = value{text: text.String()}
			}

			depth--
		}
	}

	if depth != 0 {
		return nil, invalid
	}

	return d, nil
}

// todoFields converts a document into a store update.
func todoFields(d document) (*store.Fields, error) {
	if err := d.only("id", "title", "description", "doneStatus"); err != nil {
		return nil, err
	}

	var (
		f   store.Fields
		err error
	)

	if f.ID, err = d.intField("id"); err != nil {
		return nil, err
	}

	if f.Title, err = d.stringField("title"); err != nil {
		return nil, err
	}

	if f.Description, err = d.stringField("description"); err != nil {
		return nil, err
	}

	if f.DoneStatus, err = d.boolField("doneStatus"); err != nil {
		return nil, err
	}

	return &f, nil
}
