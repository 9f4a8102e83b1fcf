package domain

import "time"

// Course is a university course offered in a destination country.
type Course struct {
	ID          string    `json:"_id"`
	University  string    `json:"university"`
	Place       string    `json:"place"`
	Course      string    `json:"course"`
	CountryCode string    `json:"countryCode"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CourseRequest creates or replaces a course entry.
type CourseRequest struct {
	University  string `json:"university" binding:"required"`
	Place       string `json:"place" binding:"required"`
	Course      string `json:"course" binding:"required"`
	CountryCode string `json:"countryCode" binding:"required,len=2"`
}

// FAQ is a frequently asked question shown on the public site.
type FAQ struct {
	ID       string `json:"_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQRequest creates or replaces an FAQ entry.
type FAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// Guide is the metadata record for a downloadable country guide. The
// file bytes live elsewhere; only the reference is managed here.
type Guide struct {
	ID          string    `json:"_id"`
	FileName    string    `json:"fileName"`
	FileURL     string    `json:"fileUrl"`
	CountryCode string    `json:"countryCode"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GuideRequest registers a guide document.
type GuideRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	FileURL     string `json:"fileUrl" binding:"required,url"`
	CountryCode string `json:"countryCode" binding:"required,len=2"`
}
