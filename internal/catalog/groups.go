package catalog

import "gamecatalog/backend/internal/models"

// UngroupedName labels the bucket of tags that have no group.
const UngroupedName = "Ungrouped"

// TagGroup is one taxonomy bucket.
type TagGroup struct {
	Name      string
	Ungrouped bool
	Tags      []models.Tag
}

// GroupTags buckets tags by group, keeping groups in order of first
// appearance. Tags without a group (or with a blank one) are collected into a
// trailing Ungrouped bucket.
func GroupTags(tags []models.Tag) []TagGroup {
	var (
		groups    []TagGroup
		index     = make(map[string]int)
		ungrouped []models.Tag
	)

	for _, tag := range tags {
		if tag.Group == nil || *tag.Group == "" {
			ungrouped = append(ungrouped, tag)
			continue
		}
		i, ok := index[*tag.Group]
		if !ok {
			i = len(groups)
			index[*tag.Group] = i
			groups = append(groups, TagGroup{Name: *tag.Group})
		}
		groups[i].Tags = append(groups[i].Tags, tag)
	}

	if len(ungrouped) > 0 {
		groups = append(groups, TagGroup{Name: UngroupedName, Ungrouped: true, Tags: ungrouped})
	}
	return groups
}
