package connector

import (
	"context"

	"github.com/adamwoolhether/shopapi/dispatch"
)

// fileRef names a stored file, as accepted by the image and icon
// endpoints on delete.
type fileRef struct {
	Filename string `json:"filename"`
}

// fileRename renames a stored file.
type fileRename struct {
	OldFilename string `json:"oldFilename"`
	NewFilename string `json:"newFilename"`
}

func newFileRename(oldFilename, newFilename string) (fileRename, error) {
	if err := checkString("oldFilename", oldFilename); err != nil {
		return fileRename{}, err
	}
	if err := checkString("newFilename", newFilename); err != nil {
		return fileRename{}, err
	}
	return fileRename{OldFilename: oldFilename, NewFilename: newFilename}, nil
}

func (e *Endpoint) deleteFile(ctx context.Context, route, filename string) (*dispatch.Response, error) {
	if err := checkString("filename", filename); err != nil {
		return nil, err
	}

	return e.requester.Delete(ctx, route, fileRef{Filename: filename})
}

func (e *Endpoint) renameFile(ctx context.Context, route, oldFilename, newFilename string) (*dispatch.Response, error) {
	rename, err := newFileRename(oldFilename, newFilename)
	if err != nil {
		return nil, err
	}

	return e.requester.Put(ctx, route, rename)
}

func (e *Endpoint) upload(ctx context.Context, route, filePath, fileName string, opts ...dispatch.UploadOption) (*dispatch.Response, error) {
	if err := checkString("filePath", filePath); err != nil {
		return nil, err
	}
	if err := checkString("fileName", fileName); err != nil {
		return nil, err
	}

	return e.requester.UploadFile(ctx, route, filePath, fileName, opts...)
}
