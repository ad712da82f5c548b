// Package resp writes JSON responses in one consistent shape.
//
// Success responses carry the payload itself, or {"message": "..."} when the
// payload is a string or absent:
//
//	resp.Success(w, task)
//	resp.WithStatusCode(w, http.StatusCreated, task)
//	resp.Success(w, "Task deleted successfully")
//
// Failure responses carry a business code from package ecode:
//
//	{
//	  "code": -404,
//	  "message": "Task not found",
//	  "errors": {...}   // optional, field validation details
//	}
//
//	resp.Fail(w, resp.NotFound("Task not found"))
//	resp.Fail(w, resp.BadRequest("invalid request", fieldErrors))
package resp
