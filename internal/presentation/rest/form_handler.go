package rest

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/shopspring/decimal"

	"github.com/bibbank/fraud-predictor/internal/application/dto"
	"github.com/bibbank/fraud-predictor/internal/application/usecase"
	"github.com/bibbank/fraud-predictor/internal/domain/valueobject"
)

//go:embed templates/*.html
var templateFS embed.FS

// inputField describes one numeric input of the transaction form.
type inputField struct {
	Name  string
	Label string
	Min   string
	Max   string
	Step  string
}

var numericFields = []inputField{
	{Name: "amt", Label: "Amount ($)", Min: "0", Step: "0.01"},
	{Name: "age", Label: "Age", Min: "0", Max: "120", Step: "1"},
	{Name: "lat", Label: "Customer latitude", Min: "-90", Max: "90", Step: "any"},
	{Name: "long", Label: "Customer longitude", Min: "-180", Max: "180", Step: "any"},
	{Name: "city_pop", Label: "City population", Min: "0", Step: "1"},
	{Name: "merch_lat", Label: "Merchant latitude", Min: "-90", Max: "90", Step: "any"},
	{Name: "merch_long", Label: "Merchant longitude", Min: "-180", Max: "180", Step: "any"},
	{Name: "trans_hour", Label: "Hour (0-23)", Min: "0", Max: "23", Step: "1"},
	{Name: "trans_day", Label: "Day of month", Min: "1", Max: "31", Step: "1"},
	{Name: "trans_weekday", Label: "Weekday (0 = Monday)", Min: "0", Max: "6", Step: "1"},
	{Name: "trans_month", Label: "Month", Min: "1", Max: "12", Step: "1"},
}

// renderedField is an inputField bound to the submitted value and its error.
type renderedField struct {
	inputField
	Value string
	Error string
}

type formPage struct {
	Result     *dto.PredictionResponse
	Values     url.Values
	Errors     map[string]string
	Failure    string
	Categories []string
	Genders    []string
	Numeric    []renderedField
}

// FormHandler serves the single-page transaction form.
type FormHandler struct {
	predictFraud *usecase.PredictFraud
	decoder      *form.Decoder
	tmpl         *template.Template
	logger       *slog.Logger
}

// NewFormHandler creates a new form handler and parses the embedded templates.
func NewFormHandler(predictFraud *usecase.PredictFraud, logger *slog.Logger) *FormHandler {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"barWidth": barWidth,
	}).ParseFS(templateFS, "templates/*.html"))

	return &FormHandler{
		predictFraud: predictFraud,
		decoder:      newFormDecoder(),
		tmpl:         tmpl,
		logger:       logger,
	}
}

func newFormDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		return decimal.NewFromString(strings.TrimSpace(vals[0]))
	}, decimal.Decimal{})
	return d
}

// RegisterRoutes registers the form endpoints on the provided ServeMux.
func (h *FormHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Show)
	mux.HandleFunc("POST /{$}", h.Submit)
}

// Show renders the form pre-filled with the default transaction.
func (h *FormHandler) Show(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, formPage{Values: requestValues(dto.DefaultTransactionRequest())})
}

// Submit decodes the posted form, runs a prediction, and renders the result.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, formPage{
			Values:  requestValues(dto.DefaultTransactionRequest()),
			Failure: "The form could not be read.",
		})
		return
	}

	page := formPage{Values: r.PostForm}

	var req dto.TransactionRequest
	if err := h.decoder.Decode(&req, r.PostForm); err != nil {
		var decodeErrs form.DecodeErrors
		if !errors.As(err, &decodeErrs) {
			h.logger.Error("form decode failed", "error", err)
			page.Failure = "The form could not be read."
			h.render(w, http.StatusBadRequest, page)
			return
		}
		page.Errors = make(map[string]string, len(decodeErrs))
		for name := range decodeErrs {
			page.Errors[name] = "must be a number"
		}
		h.render(w, http.StatusUnprocessableEntity, page)
		return
	}

	resp, err := h.predictFraud.Execute(r.Context(), req)
	if err != nil {
		var inputErr *dto.InputError
		if errors.As(err, &inputErr) {
			page.Errors = make(map[string]string, len(inputErr.Fields))
			for _, f := range inputErr.Fields {
				page.Errors[f.Field] = f.Message
			}
			h.render(w, http.StatusUnprocessableEntity, page)
			return
		}

		h.logger.Error("prediction failed", "error", err)
		page.Failure = "Prediction failed. Please try again later."
		h.render(w, http.StatusInternalServerError, page)
		return
	}

	page.Result = &resp
	h.render(w, http.StatusOK, page)
}

func (h *FormHandler) render(w http.ResponseWriter, status int, page formPage) {
	page.Categories = valueobject.KnownCategories()
	page.Genders = valueobject.KnownGenders()
	page.Numeric = make([]renderedField, 0, len(numericFields))
	for _, f := range numericFields {
		page.Numeric = append(page.Numeric, renderedField{
			inputField: f,
			Value:      page.Values.Get(f.Name),
			Error:      page.Errors[f.Name],
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, "form.html", page); err != nil {
		h.logger.Error("template render failed", "error", err)
	}
}

// FieldErrorNames returns the rejected field names in a stable order.
func (p formPage) FieldErrorNames() []string {
	names := make([]string, 0, len(p.Errors))
	for name := range p.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func requestValues(req dto.TransactionRequest) url.Values {
	ff := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

	return url.Values{
		"category":      {req.Category},
		"gender":        {req.Gender},
		"state":         {req.State},
		"amt":           {req.Amount.StringFixed(2)},
		"age":           {strconv.Itoa(req.Age)},
		"lat":           {ff(req.Lat)},
		"long":          {ff(req.Long)},
		"city_pop":      {strconv.FormatInt(req.CityPop, 10)},
		"merch_lat":     {ff(req.MerchLat)},
		"merch_long":    {ff(req.MerchLong)},
		"trans_hour":    {strconv.Itoa(req.TransHour)},
		"trans_day":     {strconv.Itoa(req.TransDay)},
		"trans_weekday": {strconv.Itoa(req.TransWeekday)},
		"trans_month":   {strconv.Itoa(req.TransMonth)},
	}
}

// barWidth renders the probability bar width from a percent string such as "7.50%".
func barWidth(percent string) template.CSS {
	if _, err := strconv.ParseFloat(strings.TrimSuffix(percent, "%"), 64); err != nil {
		return template.CSS("width: 0%")
	}
	return template.CSS("width: " + percent)
}
