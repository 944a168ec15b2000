package api

import (
	"net/http"
	"strconv"

	"github.com/portfolio-insights/internal/period"
	"github.com/portfolio-insights/internal/types"
)

// handleCurrencyConverter converts an amount between INR and USD at a
// historical or latest exchange rate.
//
// Query parameters:
//   - isINRtoUSD: conversion direction, default true
//   - date: rate date, fiscal id, or year; default "latest"
//   - amount: amount to convert, default 1
//   - isQuarterly / isAnnual: treat date as a fiscal period id
func (s *Server) handleCurrencyConverter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	direction := types.DirectionINRToUSD
	if query.Get("isINRtoUSD") == "false" {
		direction = types.DirectionUSDToINR
	}

	amount := 1.0
	if raw := query.Get("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid amount")
			return
		}
		amount = parsed
	}

	date := query.Get("date")
	if date == "" {
		date = period.Latest
	}
	switch {
	case query.Get("isQuarterly") == "true":
		date = period.QuarterlyRateDate(date)
	case query.Get("isAnnual") == "true":
		date = period.AnnualRateDate(date)
	}

	converted, err := s.converter.Convert(r.Context(), date, direction.Base(), direction.Target(), amount)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]float64{direction.Target(): converted})
}
