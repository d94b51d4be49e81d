package service

import (
	"context"
	"log"

	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
)

// Pipeline composes the whole request flow: intake, recognition, gate,
// generation, persistence. One logical request runs it sequentially;
// concurrent requests share only the FavoritesStore.
type Pipeline struct {
	intake     *ImageIntake
	recognizer FoodRecognizer
	gate       *ConfidenceGate
	generator  RecipeGenerator
	favorites  *FavoritesStore
	cache      *RecognitionCache
	photos     *PhotoArchive
}

// NewPipeline wires the pipeline components. recognizer or generator
// may be nil when their credential is absent; the corresponding entry
// points then fail with ErrNotConfigured before any network call.
func NewPipeline(
	intake *ImageIntake,
	recognizer FoodRecognizer,
	gate *ConfidenceGate,
	generator RecipeGenerator,
	favorites *FavoritesStore,
	cache *RecognitionCache,
	photos *PhotoArchive,
) *Pipeline {
	return &Pipeline{
		intake:     intake,
		recognizer: recognizer,
		gate:       gate,
		generator:  generator,
		favorites:  favorites,
		cache:      cache,
		photos:     photos,
	}
}

// MaxImageBytes reports the intake size ceiling so transport code can
// reject an oversized upload before buffering it.
func (p *Pipeline) MaxImageBytes() int64 {
	return p.intake.maxBytes
}

// Recognize validates the upload, invokes the vision capability (or the
// cache) and applies the confidence gate. The pipeline never retries
// recognition on its own; that decision belongs to the caller.
func (p *Pipeline) Recognize(ctx context.Context, data []byte, declaredMIME string) (model.GateDecision, error) {
	img, err := p.intake.Validate(data, declaredMIME)
	if err != nil {
		return model.GateDecision{}, err
	}

	if p.recognizer == nil {
		return model.GateDecision{}, ErrNotConfigured
	}

	result := p.cache.Get(ctx, img.Data)
	if result == nil {
		result, err = p.recognizer.Recognize(ctx, img)
		if err != nil {
			return model.GateDecision{}, err
		}
		if err := p.cache.Set(ctx, img.Data, result); err != nil {
			log.Printf("[Pipeline] recognition cache write failed: %v", err)
		}
	}

	decision := p.gate.Decide(result)
	if decision.Accepted {
		if _, err := p.photos.Store(ctx, img); err != nil {
			log.Printf("[Pipeline] photo archive failed: %v", err)
		}
	}
	return decision, nil
}

// GenerateRecipes validates the preferences and runs the bounded
// generation policy.
func (p *Pipeline) GenerateRecipes(ctx context.Context, items []string, prefs model.RecipePreferences) (*GenerationResult, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	if p.generator == nil {
		return nil, ErrNotConfigured
	}
	return p.generator.Generate(ctx, items, prefs)
}

// SaveFavorite persists a new favorite snapshot.
func (p *Pipeline) SaveFavorite(ctx context.Context, recipe *model.Recipe, itemsUsed []string) (*model.Favorite, error) {
	return p.favorites.Save(ctx, recipe, itemsUsed)
}

// ListFavorites returns favorites most recent first.
func (p *Pipeline) ListFavorites(ctx context.Context, filter FavoriteFilter) ([]*model.Favorite, error) {
	return p.favorites.List(ctx, filter)
}

// DeleteFavorite removes a favorite by id.
func (p *Pipeline) DeleteFavorite(ctx context.Context, id uint) error {
	return p.favorites.Delete(ctx, id)
}
