package connector

import (
	"context"

	"github.com/adamwoolhether/shopapi/dispatch"
)

// Categories connects to the category endpoint and to the category icon
// and image stores.
type Categories struct {
	*Endpoint
}

// NewCategories binds a category connector to r.
func NewCategories(r Requester) (*Categories, error) {
	e, err := NewEndpoint(r, Route(CategoriesRoute))
	if err != nil {
		return nil, err
	}
	return &Categories{Endpoint: e}, nil
}

// GetChildren returns the child categories of a category.
func (c *Categories) GetChildren(ctx context.Context, categoryID int) (*dispatch.Response, error) {
	if err := checkID("categoryID", categoryID); err != nil {
		return nil, err
	}

	return c.requester.Get(ctx, c.sub(categoryID, "children"), nil)
}

// GetIcons lists all category icons.
func (c *Categories) GetIcons(ctx context.Context) (*dispatch.Response, error) {
	return c.requester.Get(ctx, CategoryIconsRoute, nil)
}

// GetImages lists all category images.
func (c *Categories) GetImages(ctx context.Context) (*dispatch.Response, error) {
	return c.requester.Get(ctx, CategoryImagesRoute, nil)
}

// DeleteIcon deletes a category icon by file name.
func (c *Categories) DeleteIcon(ctx context.Context, filename string) (*dispatch.Response, error) {
	return c.deleteFile(ctx, CategoryIconsRoute, filename)
}

// DeleteImage deletes a category image by file name.
func (c *Categories) DeleteImage(ctx context.Context, filename string) (*dispatch.Response, error) {
	return c.deleteFile(ctx, CategoryImagesRoute, filename)
}

// RenameIcon renames a category icon.
func (c *Categories) RenameIcon(ctx context.Context, oldFilename, newFilename string) (*dispatch.Response, error) {
	return c.renameFile(ctx, CategoryIconsRoute, oldFilename, newFilename)
}

// RenameImage renames a category image.
func (c *Categories) RenameImage(ctx context.Context, oldFilename, newFilename string) (*dispatch.Response, error) {
	return c.renameFile(ctx, CategoryImagesRoute, oldFilename, newFilename)
}

// UploadIcon uploads the file at filePath as a category icon named fileName.
func (c *Categories) UploadIcon(ctx context.Context, filePath, fileName string) (*dispatch.Response, error) {
	return c.upload(ctx, CategoryIconsRoute, filePath, fileName)
}

// UploadImage uploads the file at filePath as a category image named fileName.
func (c *Categories) UploadImage(ctx context.Context, filePath, fileName string) (*dispatch.Response, error) {
	return c.upload(ctx, CategoryImagesRoute, filePath, fileName)
}
