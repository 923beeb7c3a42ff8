// Package search ranks catalog products against a free-text query.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Document 是排名需要的商品欄位
type Document struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Category    string
	Price       decimal.Decimal
	Image       string
}

type Summary struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// 分數權重
const (
	nameExact       = 10
	namePrefix      = 5
	nameContains    = 2
	categoryExact   = 4
	categoryPrefix  = 3
	descExact       = 2
	descContains    = 1
	minContainsLen  = 3 // name contains 需要 len > 2
	minDescScoreLen = 3
)

type term struct {
	text   string
	exact  *regexp.Regexp
	prefix *regexp.Regexp
}

func newTerm(t string) term {
	quoted := regexp.QuoteMeta(t)
	return term{
		text:   t,
		exact:  regexp.MustCompile(`\b` + quoted + `\b`),
		prefix: regexp.MustCompile(`\b` + quoted),
	}
}

// Terms 將 query 轉小寫後以空白切開
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Rank 回傳分數 > 0 的商品, 依分數遞減排序, 同分保留原順序.
// query 沒有任何 term 時回傳整個 catalog.
func Rank(query string, docs []Document) []Summary {
	words := Terms(query)
	if len(words) == 0 {
		out := make([]Summary, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.summary())
		}
		return out
	}

	terms := make([]term, 0, len(words))
	for _, w := range words {
		terms = append(terms, newTerm(w))
	}

	type scored struct {
		doc   Document
		score int
	}
	var hits []scored
	for _, d := range docs {
		if s := score(terms, d); s > 0 {
			hits = append(hits, scored{doc: d, score: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]Summary, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.doc.summary())
	}
	return out
}

// ScoreQuery 計算單一商品對 query 的總分
func ScoreQuery(query string, d Document) int {
	words := Terms(query)
	terms := make([]term, 0, len(words))
	for _, w := range words {
		terms = append(terms, newTerm(w))
	}
	return score(terms, d)
}

func score(terms []term, d Document) int {
	name := strings.ToLower(d.Name)
	category := strings.ToLower(d.Category)
	desc := strings.ToLower(d.Description)

	total := 0
	for _, t := range terms {
		n := utf8.RuneCountInString(t.text)
		switch {
		case t.exact.MatchString(name):
			total += nameExact
		case t.prefix.MatchString(name):
			total += namePrefix
		case n >= minContainsLen && strings.Contains(name, t.text):
			total += nameContains
		}

		switch {
		case t.exact.MatchString(category):
			total += categoryExact
		case t.prefix.MatchString(category):
			total += categoryPrefix
		}

		// 短字不算描述, 避免雜訊
		if n >= minDescScoreLen {
			switch {
			case t.exact.MatchString(desc):
				total += descExact
			case strings.Contains(desc, t.text):
				total += descContains
			}
		}
	}
	return total
}

func (d Document) summary() Summary {
	return Summary{
		ID:    d.ID,
		Name:  d.Name,
		Slug:  d.Slug,
		Price: d.Price,
		Image: d.Image,
	}
}
