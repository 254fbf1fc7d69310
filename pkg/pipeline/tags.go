package pipeline

import (
	"strings"

	"stockmeta/pkg/asset"
)

// BuildTagSet maps the cleaned metadata onto embedded-metadata fields.
// XMP is written for every format; raster formats also get IPTC and EXIF
// mirrors for cross-platform compatibility, while vector containers only
// reliably carry IPTC.
func BuildTagSet(a asset.Asset, title, desc string, keywords []string) TagSet {
	tags := TagSet{
		"XMP:Title":       title,
		"XMP:Description": desc,
		"XMP:Subject":     keywords,
	}

	switch {
	case a.Raster():
		tags["IPTC:Headline"] = title
		tags["IPTC:Caption-Abstract"] = desc
		tags["IPTC:Keywords"] = keywords
		tags["EXIF:XPTitle"] = title
		tags["EXIF:XPKeywords"] = strings.Join(keywords, ";")
		tags["EXIF:ImageDescription"] = desc
	case a.Kind == asset.Vector:
		tags["IPTC:Headline"] = title
		tags["IPTC:Keywords"] = keywords
	}

	return tags
}
