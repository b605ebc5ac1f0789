// Command seed fills a pharmacy backend with demo records through its REST
// API, using the same validation as the web forms.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	"github.com/pharmacare/pharmacy-web/internal/auth"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/customers"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/equipment"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/medicines"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/payments"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/sales"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/suppliers"
	"github.com/pharmacare/pharmacy-web/internal/shared"
)

func main() {
	count := flag.Int("n", 10, "records per collection")
	seed := flag.Uint64("seed", 0, "faker seed, 0 for random")
	flag.Parse()

	ctx := context.Background()
	api := apiclient.New(getenv("BACKEND_BASE_URL", apiclient.DefaultBaseURL))
	validator := shared.NewValidator()

	creds, err := auth.NewService(api, auth.NopRecorder{}, validator, nil).Login(ctx, auth.LoginForm{
		UsernameOrEmail: getenv("SEED_USERNAME", "admin"),
		Password:        getenv("SEED_PASSWORD", "admin123"),
	})
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	token := creds.Token

	g := newGenerator(*seed, time.Now())
	steps := []struct {
		name string
		run  func() error
	}{
		{"customers", func() error {
			svc := customers.NewService(customers.NewRepository(api, 0), validator)
			return repeat(*count, func() error { _, err := svc.Create(ctx, token, g.customer()); return err })
		}},
		{"suppliers", func() error {
			svc := suppliers.NewService(suppliers.NewRepository(api, 0), validator)
			return repeat(*count, func() error { _, err := svc.Create(ctx, token, g.supplier()); return err })
		}},
		{"medicines", func() error {
			svc := medicines.NewService(medicines.NewRepository(api, 0), validator)
			return repeat(*count, func() error { _, err := svc.Create(ctx, token, g.medicine()); return err })
		}},
		{"equipment", func() error {
			svc := equipment.NewService(equipment.NewRepository(api, 0), validator)
			return repeat(*count, func() error { _, err := svc.Create(ctx, token, g.equipment()); return err })
		}},
		{"sales", func() error {
			svc := sales.NewService(sales.NewRepository(api, 0), validator)
			return repeat(*count, func() error { _, err := svc.Create(ctx, token, g.sale()); return err })
		}},
		{"payments", func() error {
			svc := payments.NewService(payments.NewRepository(api, 0), validator)
			return repeat(*count, func() error { _, err := svc.Create(ctx, token, g.payment()); return err })
		}},
	}

	for _, step := range steps {
		fmt.Println("→ Seeding " + step.name + "...")
		if err := step.run(); err != nil {
			log.Fatalf("seed %s: %v", step.name, err)
		}
	}
	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

func repeat(n int, fn func() error) error {
	for i := 0; i < n; i++ {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

type generator struct {
	faker *gofakeit.Faker
	now   time.Time
}

func newGenerator(seed uint64, now time.Time) *generator {
	return &generator{faker: gofakeit.New(seed), now: now}
}

func (g *generator) phone() string {
	return fmt.Sprintf("(%03d) %03d-%04d", g.faker.IntRange(200, 999), g.faker.IntRange(200, 999), g.faker.IntRange(0, 9999))
}

func (g *generator) pastDate() string {
	return g.now.AddDate(0, 0, -g.faker.IntRange(0, 90)).Format(shared.DateLayout)
}

func (g *generator) amount(minimum, maximum float64) string {
	return strconv.FormatFloat(g.faker.Price(minimum, maximum), 'f', 2, 64)
}

func (g *generator) customer() customers.Form {
	return customers.Form{
		CustomerName: g.faker.Name(),
		PhoneNumber:  g.phone(),
		Email:        g.faker.Email(),
		Gender:       g.faker.RandomString(customers.Genders),
	}
}

func (g *generator) supplier() suppliers.Form {
	return suppliers.Form{
		SupplierName: g.faker.Name(),
		Company:      g.faker.Company(),
		Email:        g.faker.Email(),
		PhoneNumber:  g.phone(),
		SupplyType:   g.faker.RandomString(suppliers.SupplyTypes),
	}
}

func (g *generator) medicine() medicines.Form {
	return medicines.Form{
		MedicineName:  g.faker.ProductName(),
		MedicineType:  g.faker.RandomString(medicines.Types),
		NoOfMedicines: strconv.Itoa(g.faker.IntRange(1, 200)),
		Status:        g.faker.RandomString(medicines.Statuses),
		ExpiredDate:   g.now.AddDate(0, g.faker.IntRange(1, 24), 0).Format(shared.DateLayout),
		Price:         g.amount(5, 2500),
		BatchNumber:   "B-" + g.faker.DigitN(6),
		Manufacturer:  g.faker.Company(),
		Description:   g.faker.Adjective() + " " + g.faker.Noun(),
	}
}

func (g *generator) equipment() equipment.Form {
	return equipment.Form{
		EquipmentName:  g.faker.ProductName(),
		Model:          "M-" + g.faker.DigitN(4),
		NoOfEquipments: strconv.Itoa(g.faker.IntRange(1, 50)),
	}
}

func (g *generator) sale() sales.Form {
	return sales.Form{
		SaleType: g.faker.RandomString(sales.SaleTypes),
		Date:     g.pastDate(),
		Customer: g.faker.Name(),
		Amount:   g.amount(50, 25000),
		Status:   g.faker.RandomString(sales.Statuses),
	}
}

func (g *generator) payment() payments.Form {
	return payments.Form{
		PaymentType: g.faker.RandomString(payments.PaymentTypes),
		Date:        g.pastDate(),
		PaymentBy:   g.faker.Company(),
		Amount:      g.amount(100, 50000),
		Status:      g.faker.RandomString(payments.Statuses),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
