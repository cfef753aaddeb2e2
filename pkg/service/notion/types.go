package notion

import (
	"time"

	"github.com/jomei/notionapi"
	"github.com/positonic/exponential-sync/pkg/domain/model"
)

// pageToRecord converts a Notion page into the provider-neutral record
// shape. Property values are flattened: rich text and title to plain
// strings, selects and statuses to their option name, dates to
// time.Time, people to the first user ID.
func pageToRecord(page *notionapi.Page) *model.ExternalRecord {
	record := &model.ExternalRecord{
		ID:         page.ID.String(),
		Properties: make(map[string]any, len(page.Properties)),
		URL:        page.URL,
	}

	for name, prop := range page.Properties {
		switch p := prop.(type) {
		case *notionapi.TitleProperty:
			text := plainText(p.Title)
			record.Title = text
			record.Properties[name] = text
		case *notionapi.RichTextProperty:
			record.Properties[name] = plainText(p.RichText)
		case *notionapi.SelectProperty:
			record.Properties[name] = p.Select.Name
		case *notionapi.StatusProperty:
			record.Properties[name] = p.Status.Name
		case *notionapi.DateProperty:
			if p.Date != nil && p.Date.Start != nil {
				record.Properties[name] = time.Time(*p.Date.Start)
			}
		case *notionapi.PeopleProperty:
			if len(p.People) > 0 {
				record.Properties[name] = p.People[0].ID.String()
			}
		case *notionapi.CheckboxProperty:
			record.Properties[name] = p.Checkbox
		case *notionapi.NumberProperty:
			record.Properties[name] = p.Number
		default:
			// Unsupported property kinds are omitted rather than
			// surfaced as opaque API types
		}
	}

	return record
}

// buildProperties converts a provider-neutral property payload into
// Notion API properties.
func buildProperties(properties map[string]any) notionapi.Properties {
	props := make(notionapi.Properties, len(properties))

	for name, value := range properties {
		switch v := value.(type) {
		case model.Title:
			props[name] = notionapi.TitleProperty{
				Title: richText(string(v)),
			}
		case model.Select:
			props[name] = notionapi.SelectProperty{
				Select: notionapi.Option{Name: string(v)},
			}
		case model.Person:
			props[name] = notionapi.PeopleProperty{
				People: []notionapi.User{
					{ID: notionapi.UserID(v)},
				},
			}
		case model.Date:
			start := notionapi.Date(time.Time(v))
			props[name] = notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &start},
			}
		case time.Time:
			start := notionapi.Date(v)
			props[name] = notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &start},
			}
		case model.Text:
			props[name] = notionapi.RichTextProperty{
				RichText: richText(string(v)),
			}
		case string:
			props[name] = notionapi.RichTextProperty{
				RichText: richText(v),
			}
		}
	}

	return props
}

func hasTitleProperty(props notionapi.Properties) bool {
	for _, prop := range props {
		if _, ok := prop.(notionapi.TitleProperty); ok {
			return true
		}
	}
	return false
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: s}},
	}
}

func plainText(richText []notionapi.RichText) string {
	var out string
	for _, rt := range richText {
		out += rt.PlainText
	}
	return out
}
