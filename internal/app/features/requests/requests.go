// Package requests serves the delivery request screens: a registration
// form that forwards upstream and a card list filtered by delivery date.
package requests

import (
	"html/template"
	"sort"

	"github.com/dalemusser/waffle/pantry/text"

	"github.com/movehq/moveboard/internal/app/system/htmlsanitize"
	"github.com/movehq/moveboard/internal/app/system/normalize"
	"github.com/movehq/moveboard/internal/report"
	"github.com/movehq/moveboard/internal/upstream"
)

const pageSize = 10

// requestInput is the delivery request registration form.
type requestInput struct {
	Title       string `validate:"required,max=200" label:"Título"`
	DeliveryOn  string `validate:"required,reportdate" label:"Data de entrega"`
	PickupOn    string `validate:"required,reportdate" label:"Data de retirada"`
	Team        string `validate:"required,max=200" label:"Equipe"`
	Vehicle     string `validate:"required,max=200" label:"Veículo"`
	Description string `validate:"max=2000" label:"Descrição"`
}

// Card is the list-screen projection of one request.
type Card struct {
	ID          string
	Title       string
	DeliveryOn  string
	PickupOn    string
	Team        string
	Vehicle     string
	Description template.HTML
	Status      string
}

// Ongoing reports whether the request is still in progress.
func (c Card) Ongoing() bool {
	return c.Status == upstream.RequestStatusOngoing
}

func toCard(r upstream.Request) Card {
	return Card{
		ID:          r.ID,
		Title:       r.Title,
		DeliveryOn:  displayDate(r.DeliveryOn),
		PickupOn:    displayDate(r.PickupOn),
		Team:        r.Team,
		Vehicle:     r.Vehicle,
		Description: htmlsanitize.PrepareForDisplay(r.Description),
		Status:      r.Status,
	}
}

// displayDate renders a stored date in DD/MM/YYYY; raw values that do not
// parse pass through untouched.
func displayDate(raw string) string {
	if d, ok := report.ParseDate(raw); ok {
		return d.String()
	}
	return raw
}

// deliveryDate feeds the engine's date filter; only the delivery date
// decides whether a request matches the criteria.
func deliveryDate(r upstream.Request) []string {
	return []string{r.DeliveryOn}
}

// sortRequests orders earliest delivery first, ties by folded title.
// Requests whose delivery date does not parse sink to the end.
func sortRequests(recs []upstream.Request) {
	sort.SliceStable(recs, func(i, j int) bool {
		di, oki := report.ParseDate(recs[i].DeliveryOn)
		dj, okj := report.ParseDate(recs[j].DeliveryOn)
		if oki != okj {
			return oki
		}
		if oki && !di.Equal(dj) {
			return di.Before(dj)
		}
		return text.Fold(recs[i].Title) < text.Fold(recs[j].Title)
	})
}

func parseInput(title, delivery, pickup, team, vehicle, description string) requestInput {
	return requestInput{
		Title:       normalize.Name(title),
		DeliveryOn:  normalize.QueryParam(delivery),
		PickupOn:    normalize.QueryParam(pickup),
		Team:        normalize.Name(team),
		Vehicle:     normalize.Name(vehicle),
		Description: htmlsanitize.Sanitize(description),
	}
}
