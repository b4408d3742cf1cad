// Package validation provides struct tag validation over the
// go-playground validator library.
//
//	type Config struct {
//	    BaseURL string `validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
package validation
