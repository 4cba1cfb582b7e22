package models

import "time"

// BackgroundImage is an admin override of a page's hero image
type BackgroundImage struct {
	PageName  string    `json:"pageName"`
	ImageURL  string    `json:"imageUrl"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BackgroundPages lists the pages whose background can be overridden
var BackgroundPages = []string{"home", "umrah", "services", "contact", "aboutus", "custom-package"}
