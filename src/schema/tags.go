package schema

import (
	"fmt"
	"strings"

	"docmapper/src/models"
)

// TagName is the struct tag key read by the extractor.
const TagName = "doc"

type fieldTag struct {
	name      string
	kind      models.ValueKind
	indexType string
	unique    bool
}

// parseFieldTag reads `doc:"name,kind[,index[:hash|:btree]][,unique]"`.
// An empty name falls back to goName.
func parseFieldTag(tag, goName string) (fieldTag, error) {
	parts := strings.Split(tag, ",")
	if len(parts) < 2 {
		return fieldTag{}, fmt.Errorf("tag %q has no value kind", tag)
	}

	ft := fieldTag{name: strings.TrimSpace(parts[0])}
	if ft.name == "" {
		ft.name = goName
	}

	kind, err := models.ParseValueKind(parts[1])
	if err != nil {
		return fieldTag{}, err
	}
	ft.kind = kind

	for _, opt := range parts[2:] {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "index":
			ft.indexType = models.IndexTypeBTree
		case strings.HasPrefix(opt, "index:"):
			switch t := strings.TrimPrefix(opt, "index:"); t {
			case models.IndexTypeBTree, models.IndexTypeHash:
				ft.indexType = t
			default:
				return fieldTag{}, fmt.Errorf("unknown index type %q", t)
			}
		case opt == "unique":
			ft.unique = true
		case opt == "":
		default:
			return fieldTag{}, fmt.Errorf("unknown tag option %q", opt)
		}
	}

	if ft.unique && ft.indexType == "" {
		ft.indexType = models.IndexTypeBTree
	}
	return ft, nil
}
