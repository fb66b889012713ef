// Package resp provides the HTTP response helpers shared by the public and
// private APIs.
//
// Success bodies are the payload itself:
//
//	resp.Success(w, file)
//	resp.WithStatusCode(w, http.StatusCreated, link)
//
// Failure bodies carry a business code from the ecode package:
//
//	{
//	  "code": -404,
//	  "message": "Not found",
//	  "errors": {...}
//	}
//
//	resp.Fail(w, resp.NotFound("Not found"))
//	resp.Fail(w, resp.BadRequest("Invalid after id"))
//
// Binary content is streamed with Stream.
package resp
