package client

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/params"
)

// upload is a file parameter resolved at build time.
type upload struct {
	field    string
	filename string
	content  []byte
}

// loadUploads reads every file value of set. Files are read before the
// request is signed so that an unreadable path never reaches the network.
func loadUploads(set *params.Set) ([]upload, error) {
	var (
		out []upload
		err error
	)
	set.Each(func(name string, v params.Value) {
		if err != nil || !v.IsFile() {
			return
		}
		path, _ := v.Path()
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			err = &apierr.Error{
				Kind:    apierr.InvalidArgument,
				Op:      "client",
				Message: "cannot read upload for parameter " + name,
				Cause:   readErr,
			}
			return
		}
		out = append(out, upload{field: name, filename: filepath.Base(path), content: content})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// multipartBody renders inline fields followed by file parts.
func multipartBody(inline *params.Set, uploads []upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	var err error
	inline.Each(func(name string, v params.Value) {
		if err == nil {
			err = w.WriteField(name, v.String())
		}
	})
	for _, u := range uploads {
		if err != nil {
			break
		}
		var part io.Writer
		if part, err = w.CreateFormFile(u.field, u.filename); err == nil {
			_, err = part.Write(u.content)
		}
	}
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		return nil, "", &apierr.Error{Kind: apierr.InvalidArgument, Op: "client", Message: "failed to encode multipart body", Cause: err}
	}
	return &buf, w.FormDataContentType(), nil
}
