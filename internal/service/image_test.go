package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/leon37/PicDiary/internal/model"
	"github.com/leon37/PicDiary/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================================
// Fakes
// ==========================================

type fakeLLM struct {
	description string
	err         error
	calls       int
}

func (f *fakeLLM) DescribeImage(_ context.Context, _ []byte, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.description, nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) GetVector(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeImageRepo struct {
	mu      sync.Mutex
	nextID  uint
	images  []model.ImageEntity
	failErr error
}

func (f *fakeImageRepo) Create(_ context.Context, image *model.ImageEntity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.nextID++
	image.ID = f.nextID
	f.images = append(f.images, *image)
	return nil
}

func (f *fakeImageRepo) ListByUser(_ context.Context, userID string, limit int) ([]model.ImageEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ImageEntity
	for i := len(f.images) - 1; i >= 0 && len(out) < limit; i-- {
		if f.images[i].UserID == userID {
			out = append(out, f.images[i])
		}
	}
	return out, nil
}

func (f *fakeImageRepo) GetByIDs(_ context.Context, userID string, ids []uint) ([]model.ImageEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.ImageEntity
	for _, img := range f.images {
		if img.UserID == userID && want[img.ID] {
			out = append(out, img)
		}
	}
	return out, nil
}

type fakeMemoryRepo struct {
	mu      sync.Mutex
	saved   []uint
	hits    []repository.MemoryResult
	savedCh chan uint
}

func (f *fakeMemoryRepo) SaveMemory(_ context.Context, _ string, imageID uint, _ string, _ []float32) error {
	f.mu.Lock()
	f.saved = append(f.saved, imageID)
	f.mu.Unlock()
	if f.savedCh != nil {
		f.savedCh <- imageID
	}
	return nil
}

func (f *fakeMemoryRepo) SearchSimilar(_ context.Context, _ string, _ int, _ []float32) ([]repository.MemoryResult, error) {
	return f.hits, nil
}

type fakeStore struct {
	mu    sync.Mutex
	files map[string][]byte
	seq   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (f *fakeStore) Save(originalName string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	name := "123-000000001-" + originalName
	f.files[name] = data
	return name, nil
}

func (f *fakeStore) Remove(filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, filename)
	return nil
}

func newTestService(llmC *fakeLLM, repo *fakeImageRepo, mem *fakeMemoryRepo, store *fakeStore) *ImageService {
	return NewImageService(llmC, &fakeEmbedder{}, repo, mem, store)
}

// ==========================================
// Tests
// ==========================================

func TestAnalyzeAndSave_Success(t *testing.T) {
	llmC := &fakeLLM{description: "Hello! A cat on a sofa."}
	repo := &fakeImageRepo{}
	mem := &fakeMemoryRepo{savedCh: make(chan uint, 1)}
	store := newFakeStore()
	svc := newTestService(llmC, repo, mem, store)

	entity, err := svc.AnalyzeAndSave(context.Background(), UploadInput{
		UserID:       "u1",
		OriginalName: "cat.jpg",
		MimeType:     "image/jpeg",
		Data:         []byte{0xFF, 0xD8},
	})
	require.NoError(t, err)
	require.NotNil(t, entity)

	assert.Equal(t, "u1", entity.UserID)
	assert.Equal(t, "Hello! A cat on a sofa.", entity.Description)
	assert.Equal(t, "/uploads/"+entity.Filename, entity.URL)
	assert.Equal(t, "image/jpeg", entity.MimeType)

	// 文件保留，记录落库
	assert.Contains(t, store.files, entity.Filename)
	assert.Len(t, repo.images, 1)

	// 描述记忆是异步写的，等它落地
	select {
	case id := <-mem.savedCh:
		assert.Equal(t, entity.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("memory save never happened")
	}
}

func TestAnalyzeAndSave_LLMFailureCleansUpFile(t *testing.T) {
	llmC := &fakeLLM{err: errors.New("api quota exceeded")}
	repo := &fakeImageRepo{}
	store := newFakeStore()
	svc := newTestService(llmC, repo, &fakeMemoryRepo{}, store)

	_, err := svc.AnalyzeAndSave(context.Background(), UploadInput{
		UserID:       "u1",
		OriginalName: "cat.jpg",
		MimeType:     "image/jpeg",
		Data:         []byte{0xFF, 0xD8},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysis)

	// 失败后文件必须被删掉，也不能有任何记录
	assert.Empty(t, store.files)
	assert.Empty(t, repo.images)
}

func TestAnalyzeAndSave_PersistFailureCleansUpFile(t *testing.T) {
	llmC := &fakeLLM{description: "desc"}
	repo := &fakeImageRepo{failErr: errors.New("db down")}
	store := newFakeStore()
	svc := newTestService(llmC, repo, &fakeMemoryRepo{}, store)

	_, err := svc.AnalyzeAndSave(context.Background(), UploadInput{
		UserID:       "u1",
		OriginalName: "cat.jpg",
		MimeType:     "image/jpeg",
		Data:         []byte{0xFF, 0xD8},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAnalysis)
	assert.Empty(t, store.files)
}

func TestListImages_NewestFirstAndCapped(t *testing.T) {
	repo := &fakeImageRepo{}
	svc := newTestService(&fakeLLM{}, repo, &fakeMemoryRepo{}, newFakeStore())
	ctx := context.Background()

	for i := 0; i < DefaultHistoryLimit+10; i++ {
		require.NoError(t, repo.Create(ctx, &model.ImageEntity{
			UserID:     "u1",
			Filename:   "f",
			UploadedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}
	// 混入别人的记录，绝不能被查出来
	require.NoError(t, repo.Create(ctx, &model.ImageEntity{UserID: "u2", Filename: "other"}))

	images, err := svc.ListImages(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, images, DefaultHistoryLimit)

	for i := 1; i < len(images); i++ {
		assert.False(t, images[i].UploadedAt.After(images[i-1].UploadedAt),
			"images must be ordered newest first")
	}
	for _, img := range images {
		assert.Equal(t, "u1", img.UserID)
	}
}

func TestSearchImages_OrderedBySimilarityAndOwned(t *testing.T) {
	repo := &fakeImageRepo{}
	ctx := context.Background()
	for _, uid := range []string{"u1", "u1", "u2"} {
		require.NoError(t, repo.Create(ctx, &model.ImageEntity{UserID: uid}))
	}

	// 记忆库按相似度返回 id=2, id=1, id=3；id=3 属于别人
	mem := &fakeMemoryRepo{hits: []repository.MemoryResult{
		{ImageID: 2, Score: 0.9},
		{ImageID: 1, Score: 0.7},
		{ImageID: 3, Score: 0.5},
	}}
	svc := newTestService(&fakeLLM{}, repo, mem, newFakeStore())

	images, err := svc.SearchImages(ctx, "u1", "a cat", 10)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, uint(2), images[0].ID)
	assert.Equal(t, uint(1), images[1].ID)
}
