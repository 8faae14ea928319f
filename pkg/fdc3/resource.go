package fdc3

import (
	"encoding/base64"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/interop-desk/mcpgate/pkg/apperrors"
)

// ResourceURI and ResourceMIMEType mark an embedded MCP resource as an FDC3
// API method request. Recipients must check both before decoding.
const (
	ResourceURI      = "fdc3://api-method-request"
	ResourceMIMEType = "application/vnd.mcp-fdc3.fdc3-api-method-request"

	payloadType = "fdc3ApiMethodRequest"
)

// MethodRequest is the FDC3 API call serialized into the resource payload.
type MethodRequest struct {
	Method string       `json:"method"`
	Params MethodParams `json:"params"`
}

// MethodParams carries the (intent, context, target) triple.
type MethodParams struct {
	Intent  string         `json:"intent,omitempty"`
	Context *Context       `json:"context,omitempty"`
	App     *AppIdentifier `json:"app,omitempty"`
}

// payload is the outer envelope stored in the resource text/blob.
type payload struct {
	Type            string `json:"type"`
	FDC3MessageJSON string `json:"fdc3MessageJson"`
}

// Resource is the portable wire shape of an FDC3 intent resource as seen by
// clients scanning a transcript. Exactly one of Text/Blob is populated.
type Resource struct {
	URI      string         `json:"uri"`
	MimeType string         `json:"mimeType"`
	Text     string         `json:"text,omitempty"`
	Blob     string         `json:"blob,omitempty"`
	Meta     map[string]any `json:"_meta,omitempty"`
}

func encodeRequest(intent string, context Context, target AppIdentifier) (string, error) {
	req := MethodRequest{
		Method: "raiseIntent",
		Params: MethodParams{
			Intent:  intent,
			Context: &context,
			App:     &target,
		},
	}
	message, err := json.Marshal(req)
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeResourceEncode, "failed to serialize fdc3 message", err)
	}
	body, err := json.Marshal(payload{
		Type:            payloadType,
		FDC3MessageJSON: string(message),
	})
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeResourceEncode, "failed to serialize resource payload", err)
	}
	return string(body), nil
}

// RaiseIntentResource encodes a raiseIntent request as an embedded MCP
// resource with an inline text payload.
func RaiseIntentResource(intent string, context Context, target AppIdentifier) (mcp.EmbeddedResource, error) {
	body, err := encodeRequest(intent, context, target)
	if err != nil {
		return mcp.EmbeddedResource{}, err
	}
	return mcp.EmbeddedResource{
		Type: "resource",
		Resource: mcp.TextResourceContents{
			URI:      ResourceURI,
			MIMEType: ResourceMIMEType,
			Text:     body,
		},
	}, nil
}

// RaiseIntentBlobResource is the base64 variant of RaiseIntentResource.
func RaiseIntentBlobResource(intent string, context Context, target AppIdentifier) (mcp.EmbeddedResource, error) {
	body, err := encodeRequest(intent, context, target)
	if err != nil {
		return mcp.EmbeddedResource{}, err
	}
	return mcp.EmbeddedResource{
		Type: "resource",
		Resource: mcp.BlobResourceContents{
			URI:      ResourceURI,
			MIMEType: ResourceMIMEType,
			Blob:     base64.StdEncoding.EncodeToString([]byte(body)),
		},
	}, nil
}

// IsIntentResource reports whether r carries an FDC3 API method request.
func IsIntentResource(r *Resource) bool {
	if r == nil {
		return false
	}
	if r.URI != ResourceURI || r.MimeType != ResourceMIMEType {
		return false
	}
	// text XOR blob
	return (r.Text != "") != (r.Blob != "")
}

// DecodeRequest recovers the FDC3 method request from a resource. The
// resource must satisfy IsIntentResource.
func DecodeRequest(r *Resource) (*MethodRequest, error) {
	if !IsIntentResource(r) {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "resource is not an fdc3 api method request", nil)
	}
	body := []byte(r.Text)
	if r.Blob != "" {
		decoded, err := base64.StdEncoding.DecodeString(r.Blob)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrCodeBadRequest, "invalid base64 resource blob", err)
		}
		body = decoded
	}
	var env payload
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "invalid resource payload", err)
	}
	if env.Type != payloadType {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "unexpected resource payload type: "+env.Type, nil)
	}
	var req MethodRequest
	if err := json.Unmarshal([]byte(env.FDC3MessageJSON), &req); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "invalid fdc3 message json", err)
	}
	return &req, nil
}
