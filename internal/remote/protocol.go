// Package remote carries manga metadata and page images between the
// serving library and the reader over a single websocket connection.
// Every exchange is one JSON request envelope answered by one JSON
// response envelope; image bytes ride along base64-encoded.
package remote

import (
	"mangaread/internal/errors"
	"mangaread/pkg/types"
)

const (
	opInfo = "info"
	opPage = "page"
)

// Wire error codes, mapped onto the error kinds on each side.
const (
	codeNotFound  = "not_found"
	codeDecode    = "decode"
	codeTransport = "transport"
)

// request asks for either the document metadata or one page image.
type request struct {
	Op     string `json:"op"`
	Number int    `json:"number,omitempty"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// response answers a single request. Exactly one of Manga, Image, or
// Error is set.
type response struct {
	Manga *types.Manga `json:"manga,omitempty"`
	Image []byte       `json:"image,omitempty"`
	Error *wireError   `json:"error,omitempty"`
}

func codeForKind(kind errors.ErrorKind) string {
	switch kind {
	case errors.NotFound:
		return codeNotFound
	case errors.DecodeFailure:
		return codeDecode
	}
	return codeTransport
}

func kindForCode(code string) errors.ErrorKind {
	switch code {
	case codeNotFound:
		return errors.NotFound
	case codeDecode:
		return errors.DecodeFailure
	}
	return errors.TransportFailure
}
