package connector

import (
	"context"

	"github.com/adamwoolhether/shopapi/dispatch"
	"github.com/adamwoolhether/shopapi/getopts"
)

// Multipart field names expected by the attachment endpoint.
const (
	attachmentFileField     = "filedata"
	attachmentFileNameField = "name"
)

// Emails connects to the email endpoint and the attachment store.
type Emails struct {
	*Endpoint
}

// NewEmails binds an email connector to r.
func NewEmails(r Requester) (*Emails, error) {
	e, err := NewEndpoint(r, Route(EmailsRoute))
	if err != nil {
		return nil, err
	}
	return &Emails{Endpoint: e}, nil
}

// GetPending returns the emails that are queued but not yet sent.
func (m *Emails) GetPending(ctx context.Context, opts *getopts.GetOptions) (*dispatch.Response, error) {
	return m.requester.Get(ctx, m.Route(), getopts.Merge(opts, map[string]any{"state": "pending"}))
}

// Queue stores an email without sending it.
func (m *Emails) Queue(ctx context.Context, data any) (*dispatch.Response, error) {
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return m.requester.Put(ctx, m.Route(), data)
}

// Send sends a new email.
func (m *Emails) Send(ctx context.Context, data any) (*dispatch.Response, error) {
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return m.requester.Post(ctx, m.Route(), data)
}

// SendByID sends a queued email.
func (m *Emails) SendByID(ctx context.Context, emailID int) (*dispatch.Response, error) {
	if err := checkID("emailID", emailID); err != nil {
		return nil, err
	}

	return m.requester.Post(ctx, m.sub(emailID), map[string]any{})
}

// UploadAttachment uploads the file at filePath as an email attachment
// named fileName.
func (m *Emails) UploadAttachment(ctx context.Context, filePath, fileName string) (*dispatch.Response, error) {
	return m.upload(ctx, AttachmentsRoute, filePath, fileName,
		dispatch.WithFileField(attachmentFileField),
		dispatch.WithFileNameField(attachmentFileNameField),
	)
}
