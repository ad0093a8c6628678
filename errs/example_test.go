package errs_test

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/adamwoolhether/shopapi/errs"
)

func ExampleInvalidArgument() {
	err := errs.InvalidArgument("term", "must not be empty")

	fmt.Println(errors.Is(err, errs.ErrInvalidArgument))
	fmt.Println(err.Error())
	// Output:
	// true
	// invalid argument: term: must not be empty
}

func ExampleNewStatusError() {
	err := errs.NewStatusError(http.StatusNotFound, `{"message":"no such address"}`)

	fmt.Println(errors.Is(err, errs.ErrNotFound))
	fmt.Println(err.StatusCode, err.Body)
	// Output:
	// true
	// 404 {"message":"no such address"}
}
