package store

import (
	"time"

	"paulinepos/internal/model"

	"github.com/shopspring/decimal"
)

// StartOfDay is local midnight of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek is Monday 00:00 of t's week in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	d := StartOfDay(t, loc)
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return d.AddDate(0, 0, -(wd - 1))
}

// StartOfMonth is the 1st of t's month at 00:00 in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// ProductSales is the quantity of one product sold on paid orders.
type ProductSales struct {
	ProductID model.ProductID `json:"productId"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
}

// DayRevenue is the paid turnover of one local day.
type DayRevenue struct {
	Day     time.Time `json:"day"`
	Revenue int64     `json:"revenue"`
}

// Dashboard is the supervisor's summary of one restaurant.
type Dashboard struct {
	At time.Time `json:"at"`

	ClosedToday int `json:"closedToday"`
	ClosedWeek  int `json:"closedWeek"`
	ClosedMonth int `json:"closedMonth"`

	Drafts        int `json:"drafts"`
	InPreparation int `json:"inPreparation"`
	Unpaid        int `json:"unpaid"`

	RevenueToday int64       `json:"revenueToday"`
	RevenueWeek  int64       `json:"revenueWeek"`
	RevenueMonth int64       `json:"revenueMonth"`
	BestDay      *DayRevenue `json:"bestDay,omitempty"`
	// AverageTicket is the mean total of paid orders of the month.
	AverageTicket decimal.Decimal `json:"averageTicket"`

	ProductCount int           `json:"productCount"`
	MostSold     *ProductSales `json:"mostSold,omitempty"`
	LeastSold    *ProductSales `json:"leastSold,omitempty"`

	Tables map[model.TableStatus]int `json:"tables"`
}

// Dashboard folds the restaurant's orders over the day, week and month
// containing now. Windows are computed in the store's location and are
// matched against each order's createdAt. Revenue and product sales only
// count paid orders.
func (s *Store) Dashboard(rid model.RestaurantID, now time.Time) Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day0 := StartOfDay(now, s.loc)
	day1 := day0.AddDate(0, 0, 1)
	week0 := StartOfWeek(now, s.loc)
	month0 := StartOfMonth(now, s.loc)

	d := Dashboard{
		At:            now,
		AverageTicket: decimal.Zero,
		Tables: map[model.TableStatus]int{
			model.TableLibre:     0,
			model.TableOccupee:   0,
			model.TableEnService: 0,
		},
	}

	sold := make(map[model.ProductID]int)
	byDay := make(map[time.Time]int64)
	paidMonth := 0

	for _, o := range s.orders.values() {
		if o.RestaurantID != rid {
			continue
		}
		created := o.CreatedAt.In(s.loc)
		today := !created.Before(day0) && created.Before(day1)
		inWeek := !created.Before(week0)
		inMonth := !created.Before(month0)

		switch {
		case o.Status == model.StatusServie:
			if today {
				d.ClosedToday++
			}
			if inWeek {
				d.ClosedWeek++
			}
			if inMonth {
				d.ClosedMonth++
			}
		case o.Status == model.StatusDraft:
			d.Drafts++
		default:
			d.InPreparation++
		}

		if !o.IsPaid {
			d.Unpaid++
			continue
		}

		total := o.Total()
		if today {
			d.RevenueToday += total
		}
		if inWeek {
			d.RevenueWeek += total
		}
		if inMonth {
			d.RevenueMonth += total
			paidMonth++
		}
		byDay[StartOfDay(created, s.loc)] += total
		for _, it := range o.Items {
			sold[it.ProductID] += it.Qty
		}
	}

	for day, rev := range byDay {
		if d.BestDay == nil || rev > d.BestDay.Revenue || (rev == d.BestDay.Revenue && day.Before(d.BestDay.Day)) {
			d.BestDay = &DayRevenue{Day: day, Revenue: rev}
		}
	}

	if paidMonth > 0 {
		d.AverageTicket = decimal.NewFromInt(d.RevenueMonth).
			Div(decimal.NewFromInt(int64(paidMonth))).
			Round(0)
	}

	// Most/least sold range over the current catalog, so a product that
	// never sold is the least sold one.
	products := s.products.filter(func(p model.Product) bool { return p.RestaurantID == rid })
	d.ProductCount = len(products)
	for _, p := range products {
		q := sold[p.ID]
		if d.MostSold == nil || q > d.MostSold.Qty {
			d.MostSold = &ProductSales{ProductID: p.ID, Name: p.Name, Qty: q}
		}
		if d.LeastSold == nil || q < d.LeastSold.Qty {
			d.LeastSold = &ProductSales{ProductID: p.ID, Name: p.Name, Qty: q}
		}
	}
	if d.MostSold != nil && d.MostSold.Qty == 0 {
		d.MostSold = nil
	}

	for _, t := range s.tables.values() {
		if t.RestaurantID == rid {
			d.Tables[t.Status]++
		}
	}
	return d
}
