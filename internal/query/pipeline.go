// Package query implements a generic query pipeline over in-memory entity collections.
//
// A request is executed in the fixed order filter → sort → shape → paginate:
//
//	request := query.NewRequest()
//	request.FilterExpression = `age>=18 && name!="root"`
//	request.OrderBy = "name desc, age"
//	request.DisplayedFields = "id, name"
//	page := query.Execute(users, request)
//
// Entity fields are discovered once per type (see Catalog) and matched case-insensitively.
// Every stage degrades to a no-op on missing or invalid input instead of failing.
package query

// Execute runs the whole pipeline over the source.
// A nil request behaves like NewRequest().
func Execute[T any](source []T, request *Request) *Page[Record] {
	if request == nil {
		request = NewRequest()
	}

	filtered := ApplyFilter(source, request.FilterExpression)
	sorted := ApplySort(filtered, request.OrderBy)
	shaped := ShapeAll(sorted, request.DisplayedFields)
	return Paginate(shaped, request.PageNumber, request.PageSize())
}
