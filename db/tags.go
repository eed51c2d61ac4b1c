package db

import (
	models "github.com/grvlle/qanda/model"
)

// Tags returns every available tag ordered by name.
func (db *Database) Tags() ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, storeErr(err, "unable to list tags")
	}
	return tags, nil
}

// TagIDs resolves tag names to ids. Unknown names are skipped, so the
// result may be shorter than names.
func (db *Database) TagIDs(names []string) ([]uint, error) {
	ids := []uint{}
	if len(names) == 0 {
		return ids, nil
	}
	var tags []models.Tag
	if err := db.Where("name IN (?)", names).Find(&tags).Error; err != nil {
		return nil, storeErr(err, "unable to resolve tags")
	}
	byName := make(map[string]uint, len(tags))
	for _, t := range tags {
		byName[t.Name] = t.ID
	}
	for _, n := range names {
		if id, ok := byName[n]; ok {
			ids = append(ids, id)
		}
	}
	return uniqueIDs(ids), nil
}

// CreateTag adds a tag to the store.
func (db *Database) CreateTag(name string) (*models.Tag, error) {
	if name == "" {
		return nil, invalid("tag name is empty")
	}
	t := &models.Tag{Name: name}
	if err := CreateNewDBRecord(db.DB, t); err != nil {
		return nil, err
	}
	return t, nil
}
