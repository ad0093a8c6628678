package connector

import (
	"context"

	"github.com/adamwoolhether/shopapi/dispatch"
	"github.com/adamwoolhether/shopapi/getopts"
)

// categoryLink identifies the category side of a product link. It is
// sent as JSON body or, on GET, as query string.
type categoryLink struct {
	CategoryID int `json:"categoryId" url:"categoryId"`
}

type categoryRelink struct {
	OldCategoryID int `json:"oldCategoryId"`
	NewCategoryID int `json:"newCategoryId"`
}

// Products connects to the product endpoint, the product-category links
// and the product image store.
type Products struct {
	*Endpoint
}

// NewProducts binds a product connector to r.
func NewProducts(r Requester) (*Products, error) {
	e, err := NewEndpoint(r, Route(ProductsRoute))
	if err != nil {
		return nil, err
	}
	return &Products{Endpoint: e}, nil
}

// UpdateMultiple updates several products in one call. data is either an
// object or a list of product changes.
func (p *Products) UpdateMultiple(ctx context.Context, data any) (*dispatch.Response, error) {
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return p.requester.Put(ctx, p.Route(), data)
}

// Links ///////////////////////////////////////////////////////////////////////////////////////

// CreateLink links a product to a category.
func (p *Products) CreateLink(ctx context.Context, productID, categoryID int) (*dispatch.Response, error) {
	if err := checkIDs(named("productID", productID), named("categoryID", categoryID)); err != nil {
		return nil, err
	}

	return p.requester.Post(ctx, p.sub(productID, "links"), categoryLink{CategoryID: categoryID})
}

// GetLinks returns the categories a product is linked to.
func (p *Products) GetLinks(ctx context.Context, productID int, opts *getopts.GetOptions) (*dispatch.Response, error) {
	if err := checkID("productID", productID); err != nil {
		return nil, err
	}

	return p.requester.Get(ctx, p.sub(productID, "links"), getopts.Parse(opts))
}

// GetLink returns the link between a product and a category.
func (p *Products) GetLink(ctx context.Context, productID, categoryID int) (*dispatch.Response, error) {
	if err := checkIDs(named("productID", productID), named("categoryID", categoryID)); err != nil {
		return nil, err
	}

	return p.requester.Get(ctx, p.sub(productID, "links"), categoryLink{CategoryID: categoryID})
}

// UpdateLink moves a product from one category to another.
func (p *Products) UpdateLink(ctx context.Context, productID, oldCategoryID, newCategoryID int) (*dispatch.Response, error) {
	if err := checkIDs(
		named("productID", productID),
		named("oldCategoryID", oldCategoryID),
		named("newCategoryID", newCategoryID),
	); err != nil {
		return nil, err
	}

	return p.requester.Put(ctx, p.sub(productID, "links"), categoryRelink{
		OldCategoryID: oldCategoryID,
		NewCategoryID: newCategoryID,
	})
}

// DeleteLink unlinks a product from one category.
func (p *Products) DeleteLink(ctx context.Context, productID, categoryID int) (*dispatch.Response, error) {
	if err := checkIDs(named("productID", productID), named("categoryID", categoryID)); err != nil {
		return nil, err
	}

	return p.requester.Delete(ctx, p.sub(productID, "links"), categoryLink{CategoryID: categoryID})
}

// DeleteLinks unlinks a product from all categories.
func (p *Products) DeleteLinks(ctx context.Context, productID int) (*dispatch.Response, error) {
	if err := checkID("productID", productID); err != nil {
		return nil, err
	}

	return p.requester.Delete(ctx, p.sub(productID, "links"), nil)
}

// Images //////////////////////////////////////////////////////////////////////////////////////

// UploadImage uploads the file at filePath as a product image named fileName.
func (p *Products) UploadImage(ctx context.Context, filePath, fileName string) (*dispatch.Response, error) {
	return p.upload(ctx, ProductImagesRoute, filePath, fileName)
}

// RenameImage renames a product image.
func (p *Products) RenameImage(ctx context.Context, oldFilename, newFilename string) (*dispatch.Response, error) {
	return p.renameFile(ctx, ProductImagesRoute, oldFilename, newFilename)
}

// DeleteImage deletes a product image by file name.
func (p *Products) DeleteImage(ctx context.Context, filename string) (*dispatch.Response, error) {
	return p.deleteFile(ctx, ProductImagesRoute, filename)
}
