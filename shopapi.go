// Package shopapi is a client for a shop's REST API.
//
// A [Client] owns one dispatcher and one connector per shop resource,
// all bound to it:
//
//	c, err := shopapi.New(shopapi.ClientOptions{
//		URL:      "https://shop.example.com",
//		User:     "admin",
//		Password: "secret",
//	})
//	if err != nil {
//		return err
//	}
//
//	resp, err := c.Addresses.GetByID(ctx, 42)
//
// Every call issues exactly one request. Arguments are validated before
// any I/O; see package errs for the error taxonomy.
package shopapi

import (
	"fmt"

	"github.com/adamwoolhether/shopapi/config"
	"github.com/adamwoolhether/shopapi/connector"
	"github.com/adamwoolhether/shopapi/dispatch"
	"github.com/adamwoolhether/shopapi/internal/validate"
)

// Version is the client library version.
const Version = dispatch.Version

// ClientOptions identifies the shop and the API user.
type ClientOptions struct {
	URL      string `json:"url" validate:"required,http_url"`
	User     string `json:"user" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Client exposes one connector per shop resource. It is safe for
// concurrent use.
type Client struct {
	Addresses  *connector.Addresses
	Categories *connector.Categories
	Countries  *connector.Countries
	Customers  *connector.Customers
	Emails     *connector.Emails
	Orders     *connector.Orders
	Products   *connector.Products
	Zones      *connector.Zones

	options    ClientOptions
	dispatcher *dispatch.Dispatcher
}

// New validates opts and builds a Client. dispatchOpts tune the
// underlying dispatcher (timeout, transport, logger, tracing).
func New(opts ClientOptions, dispatchOpts ...dispatch.Option) (*Client, error) {
	if err := validate.Check(&opts); err != nil {
		return nil, fmt.Errorf("validating client options: %w", err)
	}

	d, err := dispatch.Build(dispatch.Config{
		URL:      opts.URL,
		User:     opts.User,
		Password: opts.Password,
	}, dispatchOpts...)
	if err != nil {
		return nil, fmt.Errorf("building dispatcher: %w", err)
	}

	c := Client{
		options:    opts,
		dispatcher: d,
	}

	if c.Addresses, err = connector.NewAddresses(d); err != nil {
		return nil, err
	}
	if c.Categories, err = connector.NewCategories(d); err != nil {
		return nil, err
	}
	if c.Countries, err = connector.NewCountries(d); err != nil {
		return nil, err
	}
	if c.Customers, err = connector.NewCustomers(d); err != nil {
		return nil, err
	}
	if c.Emails, err = connector.NewEmails(d); err != nil {
		return nil, err
	}
	if c.Orders, err = connector.NewOrders(d); err != nil {
		return nil, err
	}
	if c.Products, err = connector.NewProducts(d); err != nil {
		return nil, err
	}
	if c.Zones, err = connector.NewZones(d); err != nil {
		return nil, err
	}

	return &c, nil
}

// NewFromConfig builds a Client from loaded settings. A non-zero timeout
// or user agent in cfg is applied before dispatchOpts, which may
// override them.
func NewFromConfig(cfg config.Shop, dispatchOpts ...dispatch.Option) (*Client, error) {
	var opts []dispatch.Option
	if cfg.Timeout > 0 {
		opts = append(opts, dispatch.WithTimeout(cfg.Timeout))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, dispatch.WithUserAgent(cfg.UserAgent))
	}

	return New(ClientOptions{
		URL:      cfg.URL,
		User:     cfg.User,
		Password: cfg.Password,
	}, append(opts, dispatchOpts...)...)
}

// Options returns the options the Client was built with.
func (c *Client) Options() ClientOptions {
	return c.options
}

// Dispatcher returns the dispatcher shared by every connector, for
// requests no connector covers.
func (c *Client) Dispatcher() *dispatch.Dispatcher {
	return c.dispatcher
}
