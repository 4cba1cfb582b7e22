package models

// SelectedRoom is one entry of the room-selection cart
type SelectedRoom struct {
	DestinationIndex int      `json:"destinationIndex"`
	RoomType         RoomKind `json:"roomType"`
	Quantity         int      `json:"quantity"`
	Price            float64  `json:"price"`
}

// UserInfo holds the contact details sent with bookings and inquiries
type UserInfo struct {
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Email     string `json:"email" form:"email"`
	Phone     string `json:"phone" form:"phone"`
	Message   string `json:"message,omitempty" form:"message"`
}

// FullName joins first and last name
func (u UserInfo) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// BookingRequest is posted to /api/booking-request
type BookingRequest struct {
	PackageID     string         `json:"packageId"`
	PackageName   string         `json:"packageName"`
	SelectedRooms []SelectedRoom `json:"selectedRooms"`
	UserInfo      UserInfo       `json:"userInfo"`
	TotalPrice    float64        `json:"totalPrice"`
}

// ServiceInquiry is posted to /api/service-inquiry
type ServiceInquiry struct {
	ServiceID   string   `json:"serviceId"`
	ServiceName string   `json:"serviceName"`
	UserInfo    UserInfo `json:"userInfo"`
}
