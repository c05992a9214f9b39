package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/utils"
)

// SeedMenuItem -> available and preparationTime fall back to the menu defaults when absent
type SeedMenuItem struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	Available       *bool   `json:"available"`
	PreparationTime *int    `json:"preparationTime"`
	Image           string  `json:"image"`
}

// SeedEntreprise is one tenant with its catalogue and client base, created in one call.
type SeedEntreprise struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	PostalCode  string          `json:"postalCode"`
	Country     string          `json:"country"`
	Currency    string          `json:"currency"`
	Timezone    string          `json:"timezone"`
	Description string          `json:"description"`
	Menus       []SeedMenuItem  `json:"menus"`
	Clients     []models.Client `json:"clients"`
}

type SeedResult struct {
	Entreprise *models.Entreprise `json:"entreprise"`
	Menus      []models.MenuItem  `json:"menus"`
	Clients    []models.Client    `json:"clients"`
}

type SeedService struct {
	repos *repository.Repositories
}

func NewSeedService(repos *repository.Repositories) *SeedService {
	return &SeedService{repos: repos}
}

// Seed validates the whole payload first, so a rejected entreprise leaves nothing behind.
// Client counters (orderCount, totalSpent) are imported as given.
func (s *SeedService) Seed(ctx context.Context, in SeedEntreprise) (*SeedResult, error) {
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: le mot de passe doit contenir au moins 6 caractères", ErrValidation)
	}

	entreprise := &models.Entreprise{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       in.Phone,
		Address:     in.Address,
		City:        in.City,
		PostalCode:  in.PostalCode,
		Country:     in.Country,
		Currency:    in.Currency,
		Timezone:    in.Timezone,
		Description: in.Description,
		IsActive:    true,
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	entreprise.Password = string(hashed)
	entreprise.ApplyDefaults()
	if err := ValidateStruct(entreprise); err != nil {
		return nil, err
	}

	menus := make([]models.MenuItem, 0, len(in.Menus))
	for i, m := range in.Menus {
		item := models.MenuItem{
			EntrepriseID:    "pending",
			Name:            m.Name,
			Category:        m.Category,
			Description:     m.Description,
			Price:           m.Price,
			Available:       true,
			PreparationTime: models.DefaultPreparationTime,
			Image:           m.Image,
		}
		if m.Available != nil {
			item.Available = *m.Available
		}
		if m.PreparationTime != nil {
			item.PreparationTime = *m.PreparationTime
		}
		if err := ValidateStruct(&item); err != nil {
			return nil, fmt.Errorf("menu %d: %w", i+1, err)
		}
		menus = append(menus, item)
	}

	clients := make([]models.Client, 0, len(in.Clients))
	for i, c := range in.Clients {
		c.ID = ""
		c.EntrepriseID = "pending"
		if c.Status == "" {
			c.Status = models.ClientStatusActive
		}
		if err := ValidateStruct(&c); err != nil {
			return nil, fmt.Errorf("client %d: %w", i+1, err)
		}
		clients = append(clients, c)
	}

	if err := s.repos.Entreprises.Create(ctx, entreprise); err != nil {
		return nil, err
	}

	for i := range menus {
		menus[i].EntrepriseID = entreprise.ID
		if err := s.repos.Menu.Create(ctx, &menus[i]); err != nil {
			return nil, fmt.Errorf("menu %q: %w", menus[i].Name, err)
		}
	}
	for i := range clients {
		clients[i].EntrepriseID = entreprise.ID
		if err := s.repos.Clients.Create(ctx, &clients[i]); err != nil {
			return nil, fmt.Errorf("client %q: %w", clients[i].Name, err)
		}
	}

	utils.InfoLogger.Printf("Seeded entreprise %s with %d menu items and %d clients", entreprise.ID, len(menus), len(clients))
	return &SeedResult{Entreprise: entreprise, Menus: menus, Clients: clients}, nil
}

// SeedMany stops at the first failing entreprise and returns the ones already created.
func (s *SeedService) SeedMany(ctx context.Context, list []SeedEntreprise) ([]SeedResult, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: veuillez fournir un tableau d'entreprises", ErrValidation)
	}

	results := make([]SeedResult, 0, len(list))
	for i, in := range list {
		res, err := s.Seed(ctx, in)
		if err != nil {
			return results, fmt.Errorf("entreprise %d: %w", i+1, err)
		}
		results = append(results, *res)
	}
	return results, nil
}
