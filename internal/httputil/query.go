package httputil

import (
	"net/url"
	"reflect"
)

// GetURLFields returns the fields of a query filter struct that are set in
// the URL.
//
// queryFields contains the fields used directly in a gorm struct query.
// setFields additionally contains the fields tagged with
// filterField:"false", which are processed by explicit logic in the handler
// (e.g. Limit, or a name search).
func GetURLFields(url *url.URL, filter any) ([]any, []string) {
	var queryFields []any
	var setFields []string

	val := reflect.Indirect(reflect.ValueOf(filter))
	for i := 0; i < val.NumField(); i++ {
		field := val.Type().Field(i).Name
		param := val.Type().Field(i).Tag.Get("form")
		filterField := val.Type().Field(i).Tag.Get("filterField")

		if url.Query().Has(param) {
			// All fields are added to setFields
			setFields = append(setFields, field)

			// If the field is a filterField (true by default), add it to the queryFields
			if filterField != "false" {
				queryFields = append(queryFields, field)
			}
		}
	}

	return queryFields, setFields
}
