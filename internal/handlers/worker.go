package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/ayoubkr/maalem-market/internal/sales"
)

// defaultOfferTTLDays is how long an offer may sit pending before the sweeper
// auto-rejects it. Override with OFFER_TTL_DAYS.
const defaultOfferTTLDays = 14

func offerTTL() time.Duration {
	days := defaultOfferTTLDays
	if v := os.Getenv("OFFER_TTL_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}
	return time.Duration(days) * 24 * time.Hour
}

// SweepStaleOffers rejects offers that have been pending longer than the TTL.
// Called periodically from the background worker in main. Each offer goes
// through the normal rejection transaction, so a conversion racing the sweep
// can never be half-applied.
func (h *Handlers) SweepStaleOffers() {
	cutoff := time.Now().Add(-offerTTL())

	rows, err := h.DB.Query(
		"SELECT offer_id, client_id FROM offers WHERE status = ? AND date < ?",
		models.OfferStatusPending, cutoff)
	if err != nil {
		log.Printf("stale offer sweep: query failed: %v", err)
		return
	}
	defer rows.Close()

	type staleOffer struct {
		id       int64
		clientID int64
	}
	var stale []staleOffer
	for rows.Next() {
		var s staleOffer
		if err := rows.Scan(&s.id, &s.clientID); err != nil {
			log.Printf("stale offer sweep: scan failed: %v", err)
			return
		}
		stale = append(stale, s)
	}

	for _, s := range stale {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := sales.RejectTx(ctx, h.DB, s.id)
		cancel()
		if err != nil {
			// A conversion may have won the race; that's fine.
			log.Printf("stale offer sweep: offer %d not rejected: %v", s.id, err)
			continue
		}

		message := fmt.Sprintf("Your offer #%d expired after %d days without a response.",
			s.id, int(offerTTL().Hours()/24))
		if err := h.AddNotification(models.RecipientClient, s.clientID, message); err != nil {
			log.Printf("stale offer sweep: %v", err)
		}
	}

	if len(stale) > 0 {
		log.Printf("stale offer sweep: processed %d pending offers", len(stale))
	}
}
