package bleve

import (
	"github.com/blevesearch/bleve/v2"
	bq "github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/memedex/internal/domain/search/field"
	"github.com/kailas-cloud/memedex/internal/domain/search/query"
)

// clause builds a Bleve query for a field scope; nil scope is every field.
type clause func(scope []field.Name) bq.Query

func translate(n query.Node) bq.Query {
	return query.Fold[clause](n, translator{})(nil)
}

type translator struct{}

var _ query.Visitor[clause] = translator{}

func (translator) Empty() clause {
	return func([]field.Name) bq.Query { return bleve.NewMatchAllQuery() }
}

func (translator) Term(n query.Term) clause {
	return sequence(query.Words(n.Value))
}

func (translator) Phrase(n query.Phrase) clause {
	return sequence(query.Words(n.Text))
}

func (translator) Prefix(n query.Prefix) clause {
	return perField(func(f field.Name) bq.Query {
		q := bleve.NewPrefixQuery(n.Stem)
		q.SetField(string(f))
		return q
	})
}

// Near is only reached when the whole query could not be relaxed; the
// conjunction of its terms is a superset and the ranker post-filters it.
func (translator) Near(n query.Near) clause {
	return func(scope []field.Name) bq.Query {
		parts := make([]bq.Query, len(n.Terms))
		for i, t := range n.Terms {
			parts[i] = sequence([]string{t})(scope)
		}
		return bleve.NewConjunctionQuery(parts...)
	}
}

func (translator) Field(n query.Field, inner clause) clause {
	scope := []field.Name{n.Name}
	return func([]field.Name) bq.Query { return inner(scope) }
}

func (translator) And(l, r clause) clause {
	return func(scope []field.Name) bq.Query {
		return bleve.NewConjunctionQuery(l(scope), r(scope))
	}
}

func (translator) Or(l, r clause) clause {
	return func(scope []field.Name) bq.Query {
		return bleve.NewDisjunctionQuery(l(scope), r(scope))
	}
}

func (translator) Not(l, r clause) clause {
	return func(scope []field.Name) bq.Query {
		return bq.NewBooleanQuery([]bq.Query{l(scope)}, nil, []bq.Query{r(scope)})
	}
}

// sequence matches already analyzed words contiguously inside one field.
func sequence(words []string) clause {
	return perField(func(f field.Name) bq.Query {
		if len(words) == 1 {
			q := bleve.NewTermQuery(words[0])
			q.SetField(string(f))
			return q
		}
		return bleve.NewPhraseQuery(words, string(f))
	})
}

// perField ORs one leaf query per scoped field.
func perField(build func(f field.Name) bq.Query) clause {
	return func(scope []field.Name) bq.Query {
		if scope == nil {
			scope = field.All()
		}
		if len(scope) == 1 {
			return build(scope[0])
		}
		parts := make([]bq.Query, len(scope))
		for i, f := range scope {
			parts[i] = build(f)
		}
		return bleve.NewDisjunctionQuery(parts...)
	}
}
