package planner

import (
	"fmt"

	"github.com/tabiplan/backend/internal/geo"
	"github.com/tabiplan/backend/internal/models"
)

// Validate runs the post-generation invariant checks.
// Errors never cause the request to fail; they ride alongside the
// itinerary so the client can surface corrective UI.
func Validate(itinerary models.Itinerary, locations map[string]*models.Location) models.ValidationResult {
	var issues []models.Issue
	firstSeenDay := map[string]int{}

	for dayIdx, day := range itinerary.Days {
		placeCount := 0
		categoryCounts := map[models.Category]int{}
		var neighborhoodRun string
		var neighborhoodRunLen int

		for _, act := range day.Activities {
			if act.Kind != models.ActivityPlace {
				neighborhoodRun, neighborhoodRunLen = "", 0
				continue
			}
			placeCount++

			if firstDay, dup := firstSeenDay[act.LocationID]; dup {
				issues = append(issues, models.Issue{
					Severity: models.SeverityError,
					Category: "duplicate",
					Message:  fmt.Sprintf("location %q placed on both day %d and day %d", act.LocationID, firstDay+1, dayIdx+1),
					DayIndex: dayIdx,
				})
			} else {
				firstSeenDay[act.LocationID] = dayIdx
			}

			loc, ok := locations[act.LocationID]
			if !ok {
				neighborhoodRun, neighborhoodRunLen = "", 0
				continue
			}
			categoryCounts[loc.Category]++

			if loc.Prefecture != "" {
				if expected := geo.RegionOf(loc.Prefecture); expected != "" && string(expected) != loc.Region {
					issues = append(issues, models.Issue{
						Severity: models.SeverityError,
						Category: "city-region-consistency",
						Message:  fmt.Sprintf("location %q region %q disagrees with prefecture %q", act.LocationID, loc.Region, loc.Prefecture),
						DayIndex: dayIdx,
					})
				}
			}

			nb := loc.Neighborhood()
			if nb == neighborhoodRun {
				neighborhoodRunLen++
			} else {
				neighborhoodRun, neighborhoodRunLen = nb, 1
			}
			if neighborhoodRunLen == 4 {
				issues = append(issues, models.Issue{
					Severity: models.SeverityWarning,
					Category: "neighborhood-clustering",
					Message:  fmt.Sprintf("four or more consecutive places share neighborhood %q", nb),
					DayIndex: dayIdx,
				})
			}
		}

		if placeCount < 2 {
			issues = append(issues, models.Issue{
				Severity: models.SeverityWarning,
				Category: "minimum-density",
				Message:  fmt.Sprintf("day %d has fewer than 2 place activities", dayIdx+1),
				DayIndex: dayIdx,
			})
		}

		if placeCount > 0 {
			maxCategory := 0
			for _, c := range categoryCounts {
				if c > maxCategory {
					maxCategory = c
				}
			}
			if float64(maxCategory) > 0.5*float64(placeCount) {
				issues = append(issues, models.Issue{
					Severity: models.SeverityWarning,
					Category: "category-diversity",
					Message:  fmt.Sprintf("day %d is more than half a single category", dayIdx+1),
					DayIndex: dayIdx,
				})
			}
		}
	}

	summary := models.ValidationSummary{}
	for _, issue := range issues {
		if issue.Severity == models.SeverityError {
			summary.Errors++
		} else {
			summary.Warnings++
		}
	}

	return models.ValidationResult{
		Valid:   summary.Errors == 0,
		Issues:  issues,
		Summary: summary,
	}
}
