package property

import (
	"fmt"
	"strings"

	"github.com/evcraddock/realty/internal/db"
)

// AddImage attaches an image URL to a property.
func (r *Repository) AddImage(propertyID int64, url string) (*Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, db.NewValidationError("image url is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO property_images (property_id, url) VALUES (?, ?)",
		propertyID, url,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting image: %w", db.Classify(err, "image"))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	var img Image
	err = r.db.QueryRow(
		"SELECT id, property_id, url, created_at FROM property_images WHERE id = ?", id,
	).Scan(&img.ID, &img.PropertyID, &img.URL, &img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("reading back image: %w", err)
	}

	return &img, nil
}

// ImagesByPropertyID returns a property's images in insertion order.
func (r *Repository) ImagesByPropertyID(propertyID int64) ([]*Image, error) {
	rows, err := r.db.Query(
		"SELECT id, property_id, url, created_at FROM property_images WHERE property_id = ? ORDER BY id",
		propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var images []*Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.URL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		images = append(images, &img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating images: %w", err)
	}

	return images, nil
}

// DeleteImage removes a single image.
func (r *Repository) DeleteImage(id int64) error {
	result, err := r.db.Exec("DELETE FROM property_images WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}

	return requireRow(result, "image", id)
}
