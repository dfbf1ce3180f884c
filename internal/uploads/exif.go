package uploads

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata is the camera information pulled from the selected file. Every
// field may be empty; extraction is best effort.
type Metadata struct {
	Make     string
	Model    string
	Lens     string
	FNumber  string
	Exposure string
	ISO      string
	Focal    string
	TakenAt  string
	Lat      string
	Lng      string
}

// ExtractMetadata reads EXIF tags from the raw file bytes.
func ExtractMetadata(r io.Reader) (*Metadata, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding exif: %w", err)
	}

	meta := &Metadata{
		Make:  tagString(x, exif.Make),
		Model: tagString(x, exif.Model),
		Lens:  tagString(x, exif.LensModel),
		ISO:   tagString(x, exif.ISOSpeedRatings),
	}

	if f, err := tagRatio(x, exif.FNumber); err == nil {
		meta.FNumber = "f/" + strconv.FormatFloat(f, 'f', -1, 64)
	}
	if fl, err := tagRatio(x, exif.FocalLength); err == nil {
		meta.Focal = strconv.FormatFloat(fl, 'f', -1, 64) + "mm"
	}
	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if num, den, ratErr := tag.Rat2(0); ratErr == nil && den != 0 {
			if num == 1 {
				meta.Exposure = fmt.Sprintf("1/%ds", den)
			} else {
				meta.Exposure = fmt.Sprintf("%d/%ds", num, den)
			}
		}
	}
	if dt, err := x.DateTime(); err == nil {
		meta.TakenAt = dt.Format("2006-01-02 15:04:05")
	}
	if lat, lng, err := x.LatLong(); err == nil {
		meta.Lat = strconv.FormatFloat(lat, 'f', 6, 64)
		meta.Lng = strconv.FormatFloat(lng, 'f', 6, 64)
	}

	return meta, nil
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	if s, err := tag.StringVal(); err == nil {
		return s
	}
	return tag.String()
}

func tagRatio(x *exif.Exif, name exif.FieldName) (float64, error) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, err
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, fmt.Errorf("no ratio for %s", name)
	}
	return float64(num) / float64(den), nil
}
