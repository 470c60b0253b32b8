package extract

import (
	"io"
	"os"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pageImage is an embedded raster image pulled out of a PDF, tagged with the
// page it appears on.
type pageImage struct {
	page     int
	mimeType string
	data     []byte
}

// mimeTypes maps pdfcpu file types to the MIME types vision APIs accept.
// Image types outside this map are skipped.
var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// extractImages returns the embedded images of a PDF in (page, object) order.
func extractImages(path string) ([]pageImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	type numbered struct {
		pageImage
		objNr int
	}
	var found []numbered

	digest := func(img model.Image, singleImgPerPage bool, maxPageDigits int) error {
		mimeType, ok := mimeTypes[img.FileType]
		if !ok {
			return nil
		}
		data, err := io.ReadAll(img)
		if err != nil {
			return err
		}
		found = append(found, numbered{
			pageImage: pageImage{
				page:     img.PageNr,
				mimeType: mimeType,
				data:     data,
			},
			objNr: img.ObjNr,
		})
		return nil
	}

	if err := api.ExtractImages(f, nil, digest, nil); err != nil {
		return nil, err
	}

	slices.SortStableFunc(found, func(a, b numbered) int {
		if a.page != b.page {
			return a.page - b.page
		}
		return a.objNr - b.objNr
	})

	images := make([]pageImage, len(found))
	for i, n := range found {
		images[i] = n.pageImage
	}
	return images, nil
}
