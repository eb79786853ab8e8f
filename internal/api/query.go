package api

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ==== Типы сортировки и параметров листинга ====

type SortKey struct {
	Field string
	Desc  bool
}

type ListParams struct {
	Limit     int
	Offset    int
	Sort      []SortKey
	Q         string // подстрока имени, без учёта регистра
	ProjectID int64  // 0 — любой проект
	Published *bool  // nil — все; true — только с saveId
}

// ==== Парсинг query-параметров ====

func parseListParams(q url.Values) ListParams {
	// limit
	limit := 50
	lv := q.Get("_limit")
	if lv == "" {
		lv = q.Get("limit")
	}
	if lv != "" {
		if n, err := strconv.Atoi(lv); err == nil && n >= 0 && n <= 1000 {
			limit = n
		}
	}

	// offset
	offset := 0
	ov := q.Get("_offset")
	if ov == "" {
		ov = q.Get("offset")
	}
	if ov != "" {
		if n, err := strconv.Atoi(ov); err == nil && n >= 0 {
			offset = n
		}
	}

	// sort
	var sortKeys []SortKey
	sv := strings.TrimSpace(q.Get("_sort"))
	if sv == "" {
		sv = strings.TrimSpace(q.Get("sort"))
	}
	if sv != "" {
		for _, p := range strings.Split(sv, ",") {
			p = strings.TrimSpace(p)
			desc := false
			if strings.HasPrefix(p, "-") {
				desc = true
				p = strings.TrimPrefix(p, "-")
			} else if strings.HasPrefix(p, "+") {
				p = strings.TrimPrefix(p, "+")
			}
			if p != "" {
				sortKeys = append(sortKeys, SortKey{Field: p, Desc: desc})
			}
		}
	}

	lp := ListParams{
		Limit:  limit,
		Offset: offset,
		Sort:   sortKeys,
		Q:      strings.ToLower(strings.TrimSpace(q.Get("q"))),
	}
	if v := q.Get("projectId"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			lp.ProjectID = n
		}
	}
	if v := q.Get("published"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lp.Published = &b
		}
	}
	return lp
}

func filterDrafts(all []*Draft, lp ListParams) []*Draft {
	out := all[:0:0]
	for _, d := range all {
		if lp.Q != "" && !strings.Contains(strings.ToLower(d.Name), lp.Q) {
			continue
		}
		if lp.ProjectID != 0 && d.ProjectID != lp.ProjectID {
			continue
		}
		if lp.Published != nil && (d.SaveID != 0) != *lp.Published {
			continue
		}
		out = append(out, d)
	}
	return out
}

func page[T any](items []T, offset, limit int) []T {
	start := offset
	if start < 0 {
		start = 0
	}
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ==== Сортировка ====

// сравнение двух черновиков по одному ключу; неизвестный ключ — равны
func cmpByKey(a, b *Draft, key string) int {
	switch key {
	case "id":
		return strings.Compare(a.ID, b.ID)
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "version":
		return cmpInt(a.Version, b.Version)
	case "projectId":
		return cmpInt(a.ProjectID, b.ProjectID)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// мультисортировка; стабильна, поэтому исходный порядок (по id) сохраняется для равных
func sortDrafts(drafts []*Draft, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		for _, k := range keys {
			c := cmpByKey(drafts[i], drafts[j], k.Field)
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}
