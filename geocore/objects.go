// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/goccy/go-json"
)

const objectService = "/objs"

// ObjectQuery reads objects of any type by id, and their binaries.
type ObjectQuery struct {
	objectQuery[*ObjectQuery]
}

// Objects starts an object query.
func (c *Client) Objects() *ObjectQuery {
	q := &ObjectQuery{}
	q.init(c, q)
	return q
}

// Get fetches the object with the configured id.
func (q *ObjectQuery) Get(ctx context.Context) (*Object, error) {
	if q.id == "" {
		return nil, invalidParameter("expecting id")
	}
	return get[Object](ctx, q.client, q.buildPath(objectService), q.params())
}

// Binaries lists the binary keys stored under the object.
func (q *ObjectQuery) Binaries(ctx context.Context) ([]string, error) {
	path, err := q.buildSubPath(objectService, "bins")
	if err != nil {
		return nil, err
	}
	result, err := q.client.call(ctx, request{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}
	keys, err := decodeList[string](q.client, path, result)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != nil {
			out = append(out, *k)
		}
	}
	return out, nil
}

// Binary fetches the metadata of one binary.
func (q *ObjectQuery) Binary(ctx context.Context, key string) (*BinaryDataInfo, error) {
	if key == "" {
		return nil, invalidParameter("expecting binary key")
	}
	path, err := q.buildSubPath(objectService, "bins/"+key)
	if err != nil {
		return nil, err
	}
	return get[BinaryDataInfo](ctx, q.client, path, nil)
}

// BinaryURL returns the download URL of one binary.
func (q *ObjectQuery) BinaryURL(ctx context.Context, key string) (string, error) {
	info, err := q.Binary(ctx, key)
	if err != nil {
		return "", err
	}
	if info.URL == "" {
		return "", invalidResponse(http.StatusOK, "binary has no url", nil)
	}
	return info.URL, nil
}

// binaryPath returns /objs/{id}/bins/{key} for a saved entity.
func binaryPath(entity Entity, key string) (string, error) {
	if entity == nil {
		return "", invalidParameter("expecting entity")
	}
	obj := entity.object()
	if !obj.IsSaved() || obj.ID == "" {
		return "", invalidParameter("entity is not saved")
	}
	if key == "" {
		return "", invalidParameter("expecting binary key")
	}
	return joinPath(objectService, obj.ID, "bins", key), nil
}

// UploadBinary stores data under key as a multipart upload.
func (c *Client) UploadBinary(ctx context.Context, entity Entity, key, contentType string, data io.Reader) (*BinaryDataInfo, error) {
	path, err := binaryPath(entity, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, invalidParameter("expecting binary data")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="data"; filename=%q`, key))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, invalidParameter(fmt.Sprintf("create multipart part: %v", err))
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, invalidParameter(fmt.Sprintf("read binary data: %v", err))
	}
	if err := mw.Close(); err != nil {
		return nil, invalidParameter(fmt.Sprintf("close multipart body: %v", err))
	}

	return fetchOne[BinaryDataInfo](ctx, c, request{
		method:      http.MethodPost,
		path:        path,
		raw:         buf.Bytes(),
		contentType: mw.FormDataContentType(),
	})
}

// DeleteBinary removes the binary stored under key.
func (c *Client) DeleteBinary(ctx context.Context, entity Entity, key string) error {
	path, err := binaryPath(entity, key)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, request{method: http.MethodDelete, path: path})
	return err
}

// DecodeJSONData unmarshals the object's opaque jsonData into v.
func (o *Object) DecodeJSONData(v any) error {
	if len(o.JSONData) == 0 {
		return nil
	}
	return json.Unmarshal(o.JSONData, v)
}
