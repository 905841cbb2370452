package client

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

// Request is a validated API call. Builders never perform I/O.
type Request struct {
	Method string
	Path   string
	Body   any
}

type WeightPayload struct {
	Weight float64 `json:"weight"`
	Date   string  `json:"date,omitempty"`
}

type WaterPayload struct {
	WaterML int    `json:"water_ml"`
	Date    string `json:"date,omitempty"`
}

type CaloriesPayload struct {
	Calories int    `json:"calories"`
	Datetime string `json:"datetime"`
	Item     string `json:"item,omitempty"`
}

type LoginPayload struct {
	Password string `json:"password"`
}

func BuildWeightRequest(raw string, date string) (Request, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Request{}, fmt.Errorf("%w: weight %q is not a number", domain.ErrInvalidInput, raw)
	}
	if err := domain.ValidateWeight(w); err != nil {
		return Request{}, err
	}
	date, err = optionalDate(date)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/api/v1/weight",
		Body:   WeightPayload{Weight: w, Date: date},
	}, nil
}

func BuildWaterRequest(raw string, date string) (Request, error) {
	ml, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Request{}, fmt.Errorf("%w: water %q is not a whole number of ml", domain.ErrInvalidInput, raw)
	}
	if err := domain.ValidateWater(ml); err != nil {
		return Request{}, err
	}
	date, err = optionalDate(date)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/api/v1/water",
		Body:   WaterPayload{WaterML: ml, Date: date},
	}, nil
}

func BuildCaloriesRequest(raw string, at time.Time, item string) (Request, error) {
	kcal, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Request{}, fmt.Errorf("%w: calories %q is not a whole number", domain.ErrInvalidInput, raw)
	}
	if err := domain.ValidateCalories(kcal); err != nil {
		return Request{}, err
	}
	if at.IsZero() {
		return Request{}, fmt.Errorf("%w: missing datetime", domain.ErrInvalidInput)
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/api/v1/calories",
		Body:   CaloriesPayload{Calories: kcal, Datetime: at.Format(time.RFC3339), Item: strings.TrimSpace(item)},
	}, nil
}

func optionalDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", nil
	}
	if err := domain.ValidateDateKey(date); err != nil {
		return "", err
	}
	return date, nil
}
