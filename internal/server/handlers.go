package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"

	imgcodec "github.com/disintegration/imaging"

	"github.com/ironsheep/camera-media-mcp/internal/imaging"
	"github.com/ironsheep/camera-media-mcp/internal/logger"
	"github.com/ironsheep/camera-media-mcp/internal/mimetype"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := jsonAPI.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	log := logger.FromContext(ctx).With(slog.String("tool", params.Name))
	ctx = logger.WithContext(ctx, log)

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Debug("tool failed", slog.Any("error", err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return s.toolResponse(ctx, req.ID, result)
}

// toolResponse wraps a tool result as MCP text content. A result that cannot
// be marshalled is logged and reported as an internal error.
func (s *Server) toolResponse(ctx context.Context, id interface{}, result interface{}) *MCPResponse {
	text, err := jsonAPI.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.FromContext(ctx).Error("failed to marshal tool result", slog.Any("error", err))
		return s.errorResponse(id, -32603, "Internal error", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": string(text),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each payload tool:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the payload handle from the cache
//  4. Decodes it on first use (memoized on the handle)
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Payload Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_content_type":
		return s.handleImageContentType(args)

	// Region Operations
	case "image_crop":
		return s.handleImageCrop(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// payloadArgs names a payload file and its declared content type.
type payloadArgs struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}

// === Payload Information Handlers ===

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a payloadArgs
	if err := jsonAPI.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path, a.ContentType)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a payloadArgs
	if err := jsonAPI.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path, a.ContentType)
}

// ContentTypeResult describes a resolved content-type string.
type ContentTypeResult struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Supported bool   `json:"supported"`
	Raster    bool   `json:"raster"`
}

type imageContentTypeArgs struct {
	ContentType string `json:"content_type"`
}

func (s *Server) handleImageContentType(args json.RawMessage) (interface{}, error) {
	var a imageContentTypeArgs
	if err := jsonAPI.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ct := mimetype.Resolve(a.ContentType)
	return &ContentTypeResult{
		Name:      ct.Name(),
		Kind:      ct.Kind().String(),
		Supported: ct.IsSupported(),
		Raster:    ct.IsRaster(),
	}, nil
}

// === Region Operation Handlers ===

type imageCropArgs struct {
	payloadArgs
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// CropResult carries a cropped region over the MCP text channel. The pixels
// are PNG-encoded for transport; SourceContentType names the payload they were
// decoded from.
type CropResult struct {
	SourceContentType string `json:"source_content_type"`
	Width             int    `json:"width"`
	Height            int    `json:"height"`
	ImageBase64       string `json:"image_base64"`
	MimeType          string `json:"mime_type"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := jsonAPI.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.PixelBuffer(a.Path, a.ContentType)
	if err != nil {
		return nil, err
	}
	cropped, err := imaging.Crop(img, imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2})
	if err != nil {
		return nil, err
	}
	return newCropResult(s.cache.ResolveContentType(a.Path, a.ContentType), cropped)
}

func newCropResult(source mimetype.ContentType, img *image.NRGBA) (*CropResult, error) {
	var buf bytes.Buffer
	if err := imgcodec.Encode(&buf, img, imgcodec.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		SourceContentType: source.Name(),
		Width:             img.Bounds().Dx(),
		Height:            img.Bounds().Dy(),
		ImageBase64:       base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:          mimetype.PNG,
	}, nil
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	payloadArgs
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := jsonAPI.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.PixelBuffer(a.Path, a.ContentType)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageSampleColorsMultiArgs struct {
	payloadArgs
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsMultiArgs
	if err := jsonAPI.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.PixelBuffer(a.Path, a.ContentType)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(img, points)
}

type imageDominantColorsArgs struct {
	payloadArgs
	Count  int `json:"count"`
	Region *struct {
		X1 int `json:"x1"`
		Y1 int `json:"y1"`
		X2 int `json:"x2"`
		Y2 int `json:"y2"`
	} `json:"region,omitempty"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := jsonAPI.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.PixelBuffer(a.Path, a.ContentType)
	if err != nil {
		return nil, err
	}

	var region *imaging.Region
	if a.Region != nil {
		region = &imaging.Region{X1: a.Region.X1, Y1: a.Region.Y1, X2: a.Region.X2, Y2: a.Region.Y2}
	}
	return imaging.DominantColors(img, a.Count, region)
}
