package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"humanaid/internal/utils"
	"humanaid/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

const sheetName = "Resources"

var header = []any{
	"ID", "Name", "Slug", "Category", "Tags", "Address", "City", "State", "Zip",
	"Latitude", "Longitude", "Phone", "Website", "Email", "Hours",
	"Food Onsite", "Food Type", "Languages", "Updated",
}

type Source interface {
	PublishedResources(ctx context.Context) ([]*types.ResourceListing, error)
}

// Uploader is satisfied by *s3.Client.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Exporter struct {
	logger   *logrus.Logger
	source   Source
	uploader Uploader
	bucket   string
}

// New builds an exporter. With a nil uploader or empty bucket the dataset
// is written to the local filesystem instead of S3.
func New(logger *logrus.Logger, source Source, uploader Uploader, bucket string) *Exporter {
	return &Exporter{logger: logger, source: source, uploader: uploader, bucket: bucket}
}

// Export renders every published resource and writes it to dest, which is
// an object key when uploading and a file path otherwise. It returns where
// the dataset ended up.
func (e *Exporter) Export(ctx context.Context, format Format, dest string) (string, error) {
	resources, err := e.source.PublishedResources(ctx)
	if err != nil {
		return "", err
	}

	data, contentType, err := Render(format, resources)
	if err != nil {
		return "", err
	}

	if dest == "" {
		dest = "resources." + string(format)
	}

	location := dest
	if e.uploader != nil && e.bucket != "" {
		_, err = e.uploader.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(e.bucket),
			Key:         aws.String(dest),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload export to s3: %w", err)
		}
		location = fmt.Sprintf("s3://%s/%s", e.bucket, dest)
	} else {
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write export file: %w", err)
		}
	}

	e.logger.WithFields(logrus.Fields{
		"format":    format,
		"resources": len(resources),
		"location":  location,
	}).Info("export complete")

	return location, nil
}

// Render encodes resources in the given format and reports its content type.
func Render(format Format, resources []*types.ResourceListing) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(resources, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode resources: %w", err)
		}
		return data, "application/json", nil
	case FormatXLSX:
		data, err := renderXLSX(resources)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	}

	return nil, "", fmt.Errorf("unsupported export format %q", format)
}

func renderXLSX(resources []*types.ResourceListing) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	row := header
	if err := xl.SetSheetRow(sheetName, "A1", &row); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range resources {
		record := []any{
			r.ID,
			r.Name,
			r.Slug,
			utils.PtrString(r.CategoryName),
			strings.Join(r.Tags, ", "),
			r.Address,
			r.City,
			r.State,
			utils.PtrString(r.ZipCode),
			utils.PtrFloat64(r.Latitude),
			utils.PtrFloat64(r.Longitude),
			utils.PtrString(r.Phone),
			utils.PtrString(r.Website),
			utils.PtrString(r.Email),
			utils.PtrString(r.Hours),
			yesNo(r.FoodDistOnsite),
			utils.PtrString(r.FoodDistType),
			strings.Join(r.LanguagesSpoken, ", "),
			r.UpdatedAt.Format("2006-01-02"),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := xl.SetSheetRow(sheetName, cell, &record); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func yesNo(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "yes"
	default:
		return "no"
	}
}
