// Package api exposes the HTTP surface: Gmail connection and sending,
// email generation, the template library and image hosting.
//
// Every body-carrying route accepts either form data (urlencoded or
// multipart) or JSON. Errors render as {"error":{"code","message","details"}}
// with the status derived from the error kind.
package api
