package audiobookshelf

import "abscomp/core/catalog"

// flatten maps a library item into raw book fields.
// Only fields present in the item are set, so missing required fields stay detectable.
func flatten(item map[string]any) catalog.RawFields {
	raw := catalog.RawFields{}
	copyField(raw, catalog.FieldID, item, "id")
	copyField(raw, catalog.FieldAdded, item, "addedAt")

	media, ok := item["media"].(map[string]any)
	if !ok {
		return raw
	}
	copyField(raw, catalog.FieldFiles, media, "numAudioFiles")
	copyField(raw, catalog.FieldSize, media, "size")

	metadata, ok := media["metadata"].(map[string]any)
	if !ok {
		return raw
	}
	copyField(raw, catalog.FieldTitle, metadata, "title")
	copyField(raw, catalog.FieldAuthor, metadata, "authorName")
	copyField(raw, catalog.FieldSeries, metadata, "seriesName")
	copyField(raw, catalog.FieldYear, metadata, "publishedYear")
	copyField(raw, catalog.FieldASIN, metadata, "asin")
	copyField(raw, catalog.FieldISBN, metadata, "isbn")

	return raw
}

func copyField(dst catalog.RawFields, field string, src map[string]any, key string) {
	if v, ok := src[key]; ok {
		dst[field] = v
	}
}
