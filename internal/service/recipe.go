package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeService owns the recipe write path and recipe queries.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

var _ IRecipeService = (*RecipeService)(nil)

// Create validates req and inserts the recipe, its ingredient lines and its
// tag links in a single transaction. image is an already stored image URL.
func (s *RecipeService) Create(ctx context.Context, authorID uint, req *types.CreateRecipeRequest, image string) (*models.Recipe, error) {
	db := s.db.WithContext(ctx)

	ve := &ValidationError{}
	if err := validateStruct(ve, req); err != nil {
		return nil, err
	}
	tags, err := s.checkTags(db, ve, req.Tags)
	if err != nil {
		return nil, err
	}
	if err := s.checkIngredients(db, ve, req.Ingredients); err != nil {
		return nil, err
	}
	if err := ve.err(); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       image,
		Embedding:   GenerateEmbedding(req.Name),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := replaceLines(tx, recipe.ID, req.Ingredients); err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	logging.Ctx(ctx).Info().Uint("recipe_id", recipe.ID).Uint("author_id", authorID).Msg("recipe created")
	return s.Get(ctx, recipe.ID)
}

// Update applies the supplied fields of req. Supplied tags and ingredients
// replace the stored sets wholesale. Only the author or an admin may update.
// An empty image leaves the stored image unchanged.
func (s *RecipeService) Update(ctx context.Context, actorID, recipeID uint, req *types.UpdateRecipeRequest, image string) (*models.Recipe, error) {
	db := s.db.WithContext(ctx)

	recipe, err := s.loadForWrite(db, actorID, recipeID)
	if err != nil {
		return nil, err
	}

	ve := &ValidationError{}
	if req.Name != nil {
		if err := validateVar(ve, "name", *req.Name, "required,max=256"); err != nil {
			return nil, err
		}
	}
	if req.Text != nil {
		if err := validateVar(ve, "text", *req.Text, "required"); err != nil {
			return nil, err
		}
	}
	if req.CookingTime != nil {
		if err := validateVar(ve, "cooking_time", *req.CookingTime, "min=1,max=1440"); err != nil {
			return nil, err
		}
	}
	var tags []models.Tag
	if req.Tags != nil {
		if tags, err = s.checkTags(db, ve, *req.Tags); err != nil {
			return nil, err
		}
	}
	if req.Ingredients != nil {
		if err := s.checkIngredients(db, ve, *req.Ingredients); err != nil {
			return nil, err
		}
	}
	if err := ve.err(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["embedding"] = GenerateEmbedding(*req.Name)
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.CookingTime != nil {
		updates["cooking_time"] = *req.CookingTime
	}
	if image != "" {
		updates["image"] = image
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := replaceLines(tx, recipe.ID, *req.Ingredients); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	return s.Get(ctx, recipe.ID)
}

// Delete removes the recipe and everything that references it.
func (s *RecipeService) Delete(ctx context.Context, actorID, recipeID uint) (*models.Recipe, error) {
	db := s.db.WithContext(ctx)

	recipe, err := s.loadForWrite(db, actorID, recipeID)
	if err != nil {
		return nil, err
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return deleteRecipes(tx, []uint{recipe.ID})
	}); err != nil {
		return nil, fmt.Errorf("failed to delete recipe: %w", err)
	}

	logging.Ctx(ctx).Info().Uint("recipe_id", recipe.ID).Uint("actor_id", actorID).Msg("recipe deleted")
	return recipe, nil
}

// Authorize returns the recipe if actorID may update or delete it.
func (s *RecipeService) Authorize(ctx context.Context, actorID, recipeID uint) (*models.Recipe, error) {
	return s.loadForWrite(s.db.WithContext(ctx), actorID, recipeID)
}

// Get loads a recipe with its author, tags and ingredient lines.
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.preload(s.db.WithContext(ctx)).First(&recipe, id).Error
	if isNotFound(err) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// List returns one page of recipes matching filter, newest first, and the
// total number of matches.
func (s *RecipeService) List(ctx context.Context, filter types.RecipeFilter) ([]models.Recipe, int64, error) {
	db := s.db.WithContext(ctx)
	query := db.Model(&models.Recipe{})

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.FavoritedBy != nil {
		query = query.Where("recipes.id IN (?)",
			db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy))
	}
	if filter.InCartOf != nil {
		query = query.Where("recipes.id IN (?)",
			db.Model(&models.CartItem{}).Select("recipe_id").Where("user_id = ?", *filter.InCartOf))
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("LOWER(recipes.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	if name := strings.TrimSpace(filter.Name); name != "" && db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:  "recipes.embedding <-> ?, recipes.created_at DESC, recipes.id DESC",
				Vars: []interface{}{GenerateEmbedding(name)},
			},
		})
	} else {
		query = query.Order("recipes.created_at DESC").Order("recipes.id DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := s.preload(query).Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

func (s *RecipeService) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

// loadForWrite loads the recipe and checks that actorID may change it.
func (s *RecipeService) loadForWrite(db *gorm.DB, actorID, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.Omit("embedding").First(&recipe, recipeID).Error
	if isNotFound(err) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe.AuthorID == actorID {
		return &recipe, nil
	}

	var actor models.User
	err = db.Select("id", "is_admin").First(&actor, actorID).Error
	if isNotFound(err) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

// checkTags requires a non-empty set of distinct, existing tag ids.
func (s *RecipeService) checkTags(db *gorm.DB, ve *ValidationError, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		ve.add("tags", requiredMessage)
		return nil, nil
	}
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			ve.add("tags", "tags should be unique.")
			return nil, nil
		}
		seen[id] = struct{}{}
	}

	var tags []models.Tag
	if err := db.Where("id IN ?", ids).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if len(tags) != len(ids) {
		ve.add("tags", fmt.Sprintf("invalid tag id %d.", firstMissing(ids, tagIDs(tags))))
		return nil, nil
	}
	return tags, nil
}

// checkIngredients requires a non-empty list of distinct, existing
// ingredients with amounts in range.
func (s *RecipeService) checkIngredients(db *gorm.DB, ve *ValidationError, lines []types.IngredientAmount) error {
	if len(lines) == 0 {
		ve.add("ingredients", requiredMessage)
		return nil
	}
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ID]; dup {
			ve.add("ingredients", "ingredients should be unique.")
			return nil
		}
		seen[line.ID] = struct{}{}
		ids = append(ids, line.ID)
		if line.Amount < models.MinAmount || line.Amount > models.MaxAmount {
			ve.add("ingredients", fmt.Sprintf("amount must be between %d and %d.", models.MinAmount, models.MaxAmount))
			return nil
		}
	}

	var found []uint
	if err := db.Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}
	if len(found) != len(ids) {
		ve.add("ingredients", fmt.Sprintf("invalid ingredient id %d.", firstMissing(ids, found)))
	}
	return nil
}

// replaceLines bulk-inserts the ingredient lines of a recipe.
func replaceLines(tx *gorm.DB, recipeID uint, lines []types.IngredientAmount) error {
	rows := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

// deleteRecipes removes recipes together with their lines, tag links,
// memberships and short links. Call it inside a transaction.
func deleteRecipes(tx *gorm.DB, recipeIDs []uint) error {
	if len(recipeIDs) == 0 {
		return nil
	}
	for _, m := range []interface{}{
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.CartItem{},
		&models.ShortLink{},
	} {
		if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(m).Error; err != nil {
			return err
		}
	}
	if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id IN ?", recipeIDs).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Recipe{}, recipeIDs).Error
}

func tagIDs(tags []models.Tag) []uint {
	ids := make([]uint, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func firstMissing(want, have []uint) uint {
	present := make(map[uint]struct{}, len(have))
	for _, id := range have {
		present[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := present[id]; !ok {
			return id
		}
	}
	return 0
}
