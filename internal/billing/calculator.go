// Package billing holds the one shared implementation of the room account
// totals. The persistence path and any client-side preview must agree to the
// cent, so nothing else in the repo is allowed to re-derive these numbers.
package billing

import (
	"github.com/shopspring/decimal"

	"hotel-backend/internal/models"
)

// CityTaxPerPersonPerNight is the flat municipal tax rate. No exemptions are
// modeled.
var CityTaxPerPersonPerNight = decimal.NewFromFloat(2.0)

// CalculateTotals derives the account's money snapshot from its raw service
// buckets and scalar adjustments:
//
//	roomTotal     = sum of the camera bucket
//	servicesTotal = sum of every other non-transfer bucket, plus extras
//	transferTotal = sum of the transfer bucket, plus the transfer adjustment
//	subtotal      = roomTotal + servicesTotal + transferTotal
//	finalTotal    = subtotal - advancePayment
//	cityTax       = adults * nights * rate
//
// Missing or non-numeric amounts count as zero; the calculator never fails.
func CalculateTotals(services models.ServiceBuckets, adults, nights int, extras, transfer, advancePayment string) models.AccountTotals {
	roomTotal := sumBucket(services[models.BucketRoom])
	transferTotal := sumBucket(services[models.BucketTransfer]).Add(models.ParseAmount(transfer))

	servicesTotal := models.ParseAmount(extras)
	for name, bucket := range services {
		if name == models.BucketRoom || name == models.BucketTransfer {
			continue
		}
		servicesTotal = servicesTotal.Add(sumBucket(bucket))
	}

	subtotal := roomTotal.Add(servicesTotal).Add(transferTotal)
	finalTotal := subtotal.Sub(models.ParseAmount(advancePayment))
	cityTax := CityTaxPerPersonPerNight.
		Mul(decimal.NewFromInt(int64(adults))).
		Mul(decimal.NewFromInt(int64(nights)))

	return models.AccountTotals{
		RoomTotal:     roomTotal,
		ServicesTotal: servicesTotal,
		TransferTotal: transferTotal,
		Subtotal:      subtotal,
		FinalTotal:    finalTotal,
		CityTax:       cityTax,
	}
}

// CalculateAccount recomputes and stores the totals snapshot on the account.
func CalculateAccount(a *models.RoomAccount) {
	a.Calculations = CalculateTotals(a.Services, a.Adults, a.Nights, a.Extras, a.Transfer, a.AdvancePayment)
}

func sumBucket(bucket map[string]string) decimal.Decimal {
	total := decimal.Zero
	for _, raw := range bucket {
		total = total.Add(models.ParseAmount(raw))
	}
	return total
}
