// Package endpoint maps AromAI API operations to HTTP requests.
//
// Each Endpoint is a value built by one of the constructor functions
// (Login, GetRecipes, Upload, ...). Method, Path and Params are pure
// functions of that value, so the package has no dependencies on the
// client or session state and can be tested on its own.
//
// Query parameters are emitted in a fixed order, SearchText then Page then
// PageSize, and only when supplied:
//
//	q := endpoint.ListQuery{PageSize: ptr(22)}
//	_, u, _ := endpoint.Resolve(base, endpoint.GetRecipes(q))
//	// https://apposite.live/api/Recipe/get?PageSize=22
//
// An endpoint without a path (the zero value) fails Resolve with
// ErrUnresolved instead of producing a request against the bare origin.
package endpoint
