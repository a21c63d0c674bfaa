package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// dateLayout is the wire format of booking dates.
const dateLayout = "2006-01-02"

// BookingRequest is the body of POST /room_details and PUT /my_bookings/update_date.
type BookingRequest struct {
	RoomTitle string `json:"RoomTitle" validate:"required,max=200"`
	StartDate string `json:"StartDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"EndDate" validate:"required,datetime=2006-01-02"`

	// Duration is accepted for older clients that send it but is always
	// recomputed from the dates.
	Duration int `json:"Duration,omitempty" validate:"omitempty,min=0"`
}

// ReviewRequest is the body of POST /room_review.
type ReviewRequest struct {
	ReviewerEmail string `json:"reviewerEmail,omitempty" validate:"omitempty,email"`
	Rating        int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment       string `json:"comment" validate:"required,max=2000"`
}

// describe turns validator errors into one readable line.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "datetime":
			msgs = append(msgs, fe.Field()+" must be a date in YYYY-MM-DD form")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s is out of range (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed the %q rule", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
