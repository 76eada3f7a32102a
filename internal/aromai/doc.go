// Package aromai provides the HTTP client and wire models for the AromAI
// recipe service.
//
// # Overview
//
// Client turns endpoint descriptors from package endpoint into HTTP requests,
// attaches the bearer token, checks the status code and decodes the JSON
// envelope into the typed models in types.go. Every call is a single attempt;
// callers decide whether to try again.
//
// # Envelopes
//
// The service wraps every payload:
//
//	{"data": [...], "pagination": {"pageNumber": 1, ...}}   // ListEnvelope[T]
//	{"data": {...}}                                          // Envelope[T]
//
// A body without "data" fails to decode. A list envelope with "data": []
// decodes to an empty, non-nil slice.
//
// # Authentication
//
// Every endpoint except login and register is authenticated. The token comes
// from a TokenSource, normally the *Credentials value shared with the session
// store. When no token is present the AnonymousPolicy decides between sending
// "Bearer " (the server answers 401) and omitting the header.
//
// # Errors
//
// Failures are *Error values tagged with one of three sentinels:
//
//	ErrURL             request could not be built
//	ErrInvalidResponse transport failure or unexpected status
//	ErrDecoding        2xx body did not match the expected shape
//
// Use errors.Is for the kind and StatusCode for the HTTP status:
//
//	if errors.Is(err, aromai.ErrInvalidResponse) && aromai.StatusCode(err) == 401 {
//		// token rejected
//	}
//
// # Media upload
//
// UploadMedia builds a multipart/form-data body with a "Boundary-<UUID>"
// boundary and three parts in fixed order: the JPEG as "file", then
// MediaName, then FileType. The returned MediaFile.ID is used as the
// coverPhotoId of a recipe.
//
// # Token claims
//
// DecodeClaims reads the name and email from the access token payload
// without verifying the signature.
package aromai
