package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrgarest/firebase-sender/pkg/condition"
)

func TestBuilderExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func() *condition.Builder
		want  string
	}{
		{
			name: "two topics and",
			build: func() *condition.Builder {
				return condition.New().Topic("a").And().Topic("b")
			},
			want: "'a' in topics && 'b' in topics",
		},
		{
			name: "two topics or",
			build: func() *condition.Builder {
				return condition.New().Topic("a").Or().Topic("b")
			},
			want: "'a' in topics || 'b' in topics",
		},
		{
			name: "mixed operators render in call order",
			build: func() *condition.Builder {
				return condition.New().Topic("a").Or().Topic("b").And().Topic("c")
			},
			want: "'a' in topics || 'b' in topics && 'c' in topics",
		},
		{
			name: "group parenthesized",
			build: func() *condition.Builder {
				return condition.New().Topic("news").And().Group(func(g *condition.Builder) {
					g.Topic("sports").Or().Topic("weather")
				})
			},
			want: "'news' in topics && ('sports' in topics || 'weather' in topics)",
		},
		{
			name: "nested groups",
			build: func() *condition.Builder {
				return condition.New().Group(func(g *condition.Builder) {
					g.Topic("a").And().Group(func(gg *condition.Builder) {
						gg.Topic("b").Or().Topic("c")
					})
				}).Or().Topic("d")
			},
			want: "('a' in topics && ('b' in topics || 'c' in topics)) || 'd' in topics",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.build().Expression()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilderExpressionErrors(t *testing.T) {
	t.Parallel()

	t.Run("single topic invalid", func(t *testing.T) {
		t.Parallel()
		_, err := condition.New().Topic("a").Expression()
		assert.ErrorIs(t, err, condition.ErrInvalidCondition)
	})

	t.Run("empty builder invalid", func(t *testing.T) {
		t.Parallel()
		_, err := condition.New().Expression()
		assert.ErrorIs(t, err, condition.ErrInvalidCondition)
	})

	t.Run("exactly two topics valid", func(t *testing.T) {
		t.Parallel()
		_, err := condition.New().Topic("a").And().Topic("b").Expression()
		assert.NoError(t, err)
	})

	t.Run("missing operator", func(t *testing.T) {
		t.Parallel()
		_, err := condition.New().Topic("a").Topic("b").Expression()
		assert.ErrorIs(t, err, condition.ErrMissingOperator)
	})

	t.Run("missing operator inside group", func(t *testing.T) {
		t.Parallel()
		_, err := condition.New().Topic("a").And().Group(func(g *condition.Builder) {
			g.Topic("b").Topic("c")
		}).Expression()
		assert.ErrorIs(t, err, condition.ErrMissingOperator)
	})

	t.Run("group counts toward topic minimum", func(t *testing.T) {
		t.Parallel()
		_, err := condition.New().Group(func(g *condition.Builder) {
			g.Topic("a").And().Topic("b")
		}).Expression()
		assert.NoError(t, err)
	})
}
