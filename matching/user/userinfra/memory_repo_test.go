package userinfra

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, user.NewUser("ada@example.com", "h", "Ada", "L", "1")))
	err := repo.Create(ctx, user.NewUser("ada@example.com", "h2", "Other", "L", "2"))

	assert.True(t, errx.IsCode(err, user.CodeEmailAlreadyExists))
	assert.Equal(t, 1, repo.Count())
}

func TestMemoryRepo_ConcurrentAppendsKeepEveryAnalysis(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	u := user.NewUser("ada@example.com", "h", "Ada", "L", "1")
	require.NoError(t, repo.Create(ctx, u))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := analysis.New(analysis.Document{Text: fmt.Sprint(i)}, analysis.Document{})
			assert.NoError(t, repo.AppendAnalysis(ctx, u.ID, a))
		}(i)
	}
	wg.Wait()

	got, err := repo.ListAnalyses(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	u := user.NewUser("ada@example.com", "h", "Ada", "L", "1")
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.AppendAnalysis(ctx, u.ID, analysis.New(analysis.Document{Text: "r"}, analysis.Document{})))

	list, err := repo.ListAnalyses(ctx, u.ID)
	require.NoError(t, err)
	list[0].Resume.Text = "mutated"

	again, err := repo.ListAnalyses(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "r", again[0].Resume.Text)
}

func TestMemoryRepo_UnknownUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	_, err := repo.ListAnalyses(context.Background(), "ghost")
	assert.True(t, errx.IsCode(err, user.CodeUserNotFound))
}
