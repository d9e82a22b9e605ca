// Package mimetype maps negotiated content-type strings to a closed set of
// media kinds understood by the decoder.
//
// Every string resolves to some ContentType. Strings outside the known table
// resolve to an unsupported ContentType that carries the original string
// verbatim, so an unknown type is data rather than an error.
package mimetype

import "strings"

// Known content-type names. The names are reserved: an unsupported
// ContentType can never carry one of them.
const (
	// RawRGBA is the raw interleaved RGBA container with a 12-byte header.
	RawRGBA = "image/vnd.viam.rgba"

	// JPEG is a regular JPEG image.
	JPEG = "image/jpeg"

	// PNG is a regular PNG image.
	PNG = "image/png"

	// PCD is a point cloud in .pcd form.
	PCD = "pointcloud/pcd"

	// Default is used when a content type cannot be inferred.
	Default = "application/octet-stream"
)

// Kind identifies which decoder family a ContentType belongs to.
type Kind int

// The set of kinds is fixed.
const (
	KindUnsupported Kind = iota
	KindRawRGBA
	KindJPEG
	KindPNG
	KindPCD
)

var kindNames = map[Kind]string{
	KindUnsupported: "unsupported",
	KindRawRGBA:     "raw-rgba",
	KindJPEG:        "jpeg",
	KindPNG:         "png",
	KindPCD:         "pointcloud",
}

// String returns a short lowercase label for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unsupported"
}

var registry = map[string]Kind{
	RawRGBA: KindRawRGBA,
	JPEG:    KindJPEG,
	PNG:     KindPNG,
	PCD:     KindPCD,
}

// ContentType is an immutable content-type identifier.
//
// The kind is a function of the name, so two values are equal (==) exactly
// when their names are equal, and ContentType can be used as a map key.
type ContentType struct {
	name string
	kind Kind
}

// Resolve returns the ContentType for name. It never fails: names that are
// not in the known table yield an unsupported ContentType whose Name is name.
func Resolve(name string) ContentType {
	if kind, ok := registry[name]; ok {
		return ContentType{name: name, kind: kind}
	}
	return ContentType{name: name, kind: KindUnsupported}
}

// IsSupported reports whether name is one of the known content types.
func IsSupported(name string) bool {
	_, ok := registry[name]
	return ok
}

// FromExtension guesses a ContentType from a file extension such as ".png".
// Unrecognized extensions resolve to Default, which is unsupported.
func FromExtension(ext string) ContentType {
	switch strings.ToLower(ext) {
	case ".rgba":
		return Resolve(RawRGBA)
	case ".jpg", ".jpeg":
		return Resolve(JPEG)
	case ".png":
		return Resolve(PNG)
	case ".pcd":
		return Resolve(PCD)
	default:
		return Resolve(Default)
	}
}

// Name returns the canonical name, or the original string for unsupported
// content types.
func (c ContentType) Name() string { return c.name }

// Kind returns the decoder family.
func (c ContentType) Kind() Kind { return c.kind }

// String implements fmt.Stringer.
func (c ContentType) String() string { return c.name }

// IsSupported reports whether the content type is one of the known kinds.
func (c ContentType) IsSupported() bool { return c.kind != KindUnsupported }

// IsRaster reports whether a pixel decoder exists for the content type.
// Point clouds are known but not raster.
func (c ContentType) IsRaster() bool {
	switch c.kind {
	case KindRawRGBA, KindJPEG, KindPNG:
		return true
	default:
		return false
	}
}
