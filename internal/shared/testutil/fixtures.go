package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Sample source files. The shipments cover an on-time and a late delivery,
// an undelivered shipment, a delivery recorded before shipping, a
// salesperson and country with no dimension row and an unparseable sale.
const (
	SalespersonCSV = "Sales Person,Team,Picture\n" +
		"Ann Lee,Alpha,ann.png\n" +
		"Bob Ray,Beta,\n" +
		",,\n" +
		"Cara Diaz,Alpha,cara.png\n"

	ShipmentCSV = "Shipment ID,Sales Person,Geography,Product,Date,Delivered On,Sales,Status\n" +
		"SH1,Ann Lee,Canada,Mint Chip,1/1/2022,16/1/2022,10,Completed\n" +
		"SH2,Bob Ray,India,Caramel,15/1/2022,31/1/2022,4,Completed\n" +
		"SH3,Ann Lee,UK,Fudge,3/2/2022,,7,Active\n" +
		"SH4,Zed Unknown,Mars,Caramel,10/2/2022,8/2/2022,2,Returned\n" +
		"SH5, Cara Diaz ,Canada,Mint Chip,20/3/2022,25/3/2022,x,Active\n"

	CountryCSV = "Geography,Region\n" +
		" Canada ,Americas\n" +
		"India,APAC\n" +
		"UK,Europe\n"

	ProductCSV = "Product,Category,Cost per Box\n" +
		"Mint Chip,Bites,5.0\n" +
		"Caramel,Bars,2.5\n" +
		"Fudge,Bars,unpriced\n"
)

// FixturePaths locates the four sample sources on disk
type FixturePaths struct {
	Salesperson string
	Shipment    string
	Country     string
	Product     string
}

// WriteFixtures writes the sample sources into dir
func WriteFixtures(t testing.TB, dir string) FixturePaths {
	t.Helper()

	return FixturePaths{
		Salesperson: WriteFile(t, dir, "SalesPerson.csv", SalespersonCSV),
		Shipment:    WriteFile(t, dir, "Shipment.csv", ShipmentCSV),
		Country:     WriteFile(t, dir, "Country.csv", CountryCSV),
		Product:     WriteFile(t, dir, "Product.csv", ProductCSV),
	}
}

// WriteFile writes content to dir/name and returns the path
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
