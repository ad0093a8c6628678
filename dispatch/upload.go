package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/adamwoolhether/shopapi/errs"
)

const (
	// DefaultFileField is the multipart field carrying the file content.
	DefaultFileField = "file"
	// DefaultFileNameField is the multipart field carrying the file name.
	DefaultFileNameField = "filename"
)

// form is a multipart payload ready to be streamed as a request body.
type form struct {
	body        io.Reader
	contentType string
}

// UploadFile sends the file at filePath as a multipart/form-data POST to
// route, with fileName in a second field. The file is streamed, not
// buffered, and its handle is released once the request settles.
func (d *Dispatcher) UploadFile(ctx context.Context, route, filePath, fileName string, optFns ...UploadOption) (*Response, error) {
	switch {
	case route == "":
		return nil, errs.InvalidArgument("route", "missing or invalid route")
	case filePath == "":
		return nil, errs.InvalidArgument("filePath", "missing or invalid file path")
	case fileName == "":
		return nil, errs.InvalidArgument("fileName", "missing or invalid file name")
	}

	opts := uploadOpts{
		fileField:     DefaultFileField,
		fileNameField: DefaultFileNameField,
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, err
		}
	}

	path, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errs.WrapInvalidArgument("filePath", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errs.WrapInvalidArgument("filePath", err)
	}

	info, err := file.Stat()
	if err != nil {
		d.closeFile(ctx, file)
		return nil, errs.WrapInvalidArgument("filePath", err)
	}
	if info.IsDir() {
		d.closeFile(ctx, file)
		return nil, errs.InvalidArgument("filePath", fmt.Sprintf("%s is a directory", path))
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	done := make(chan struct{})

	go func() {
		defer close(done)
		pw.CloseWithError(writeForm(mw, file, filepath.Base(path), fileName, opts))
	}()

	// The writer goroutine must exit before the file is closed: closing
	// the reader unblocks any pending write.
	defer func() {
		if err := pr.Close(); err != nil {
			d.logger.ErrorContext(ctx, "closing upload pipe", "error", err)
		}
		<-done
		d.closeFile(ctx, file)
	}()

	return d.perform(ctx, request{
		route:  route,
		method: MethodPost,
		kind:   BodyKindFor(MethodPost, true),
		payload: &form{
			body:        pr,
			contentType: mw.FormDataContentType(),
		},
	})
}

func (d *Dispatcher) closeFile(ctx context.Context, file *os.File) {
	if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		d.logger.ErrorContext(ctx, "closing upload file", "path", file.Name(), "error", err)
	}
}

// writeForm writes the file part followed by the file name field and
// closes the multipart writer.
func writeForm(mw *multipart.Writer, r io.Reader, baseName, fileName string, opts uploadOpts) error {
	contentType := mime.TypeByExtension(filepath.Ext(baseName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(opts.fileField), escapeQuotes(baseName)))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}

	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	if err := mw.WriteField(opts.fileNameField, fileName); err != nil {
		return fmt.Errorf("writing %s field: %w", opts.fileNameField, err)
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
