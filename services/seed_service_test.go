package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/repository"
)

func pizzaPalace(email string) SeedEntreprise {
	prep := 20
	closed := false
	return SeedEntreprise{
		Name:       "Pizza Palace",
		Email:      email,
		Password:   "password123",
		Phone:      "01 23 45 67 89",
		Address:    "123 Rue de Paris",
		City:       "Paris",
		PostalCode: "75001",
		Menus: []SeedMenuItem{
			{Name: "Pizza Margherita", Category: "Pizza", Price: 12.5},
			{Name: "Calzone", Category: "Pizza", Price: 14, PreparationTime: &prep, Available: &closed},
		},
		Clients: []models.Client{
			{Name: "Jean Dupont", PhoneNumber: "06 12 34 56 78", Address: "123 Rue de Paris", City: "Paris", PostalCode: "75001", OrderCount: 5, TotalSpent: 145.5},
		},
	}
}

func TestSeed_CreatesEntrepriseMenusAndClients(t *testing.T) {
	ctx := context.Background()
	repos := setupTestRepos(t)
	svc := NewSeedService(repos)

	res, err := svc.Seed(ctx, pizzaPalace("Pizza.Palace@Resto.fr"))
	require.NoError(t, err)

	ent := res.Entreprise
	assert.NotEmpty(t, ent.ID)
	assert.Equal(t, "pizza.palace@resto.fr", ent.Email)
	assert.Equal(t, "France", ent.Country)
	assert.True(t, ent.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(ent.Password), []byte("password123")))

	menu, err := repos.Menu.List(ctx, ent.ID, "")
	require.NoError(t, err)
	require.Len(t, menu, 2)
	byName := map[string]models.MenuItem{}
	for _, m := range menu {
		byName[m.Name] = m
	}
	assert.True(t, byName["Pizza Margherita"].Available)
	assert.Equal(t, models.DefaultPreparationTime, byName["Pizza Margherita"].PreparationTime)
	assert.False(t, byName["Calzone"].Available)
	assert.Equal(t, 20, byName["Calzone"].PreparationTime)

	client, err := repos.Clients.FindByPhone(ctx, ent.ID, "+33612345678")
	require.NoError(t, err)
	assert.Equal(t, "Jean Dupont", client.Name)
	assert.Equal(t, models.ClientStatusActive, client.Status)
	assert.Equal(t, 5, client.OrderCount)
	assert.InDelta(t, 145.5, client.TotalSpent, 0.001)
}

func TestSeed_InvalidPayloadWritesNothing(t *testing.T) {
	ctx := context.Background()
	repos := setupTestRepos(t)
	svc := NewSeedService(repos)

	in := pizzaPalace("palace@resto.fr")
	in.Menus = append(in.Menus, SeedMenuItem{Name: "Kebab", Category: "Sandwich", Price: 8})

	_, err := svc.Seed(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = repos.Entreprises.FindByEmail(ctx, "palace@resto.fr")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	in = pizzaPalace("short@resto.fr")
	in.Password = "123"
	_, err = svc.Seed(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSeedMany(t *testing.T) {
	ctx := context.Background()
	repos := setupTestRepos(t)
	svc := NewSeedService(repos)

	_, err := svc.SeedMany(ctx, nil)
	assert.ErrorIs(t, err, ErrValidation)

	results, err := svc.SeedMany(ctx, []SeedEntreprise{pizzaPalace("a@resto.fr"), pizzaPalace("b@resto.fr")})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotEqual(t, results[0].Entreprise.ID, results[1].Entreprise.ID)

	// second entry reuses an email: the first one stays created
	results, err = svc.SeedMany(ctx, []SeedEntreprise{pizzaPalace("c@resto.fr"), pizzaPalace("a@resto.fr")})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	require.Len(t, results, 1)
	assert.Equal(t, "c@resto.fr", results[0].Entreprise.Email)
}
