package domain

// Entity table names, also used as output file prefixes
const (
	EntitySalesperson = "salesperson"
	EntityShipment    = "shipment"
	EntityCountry     = "country"
	EntityProduct     = "product"
	EntityMaster      = "master"
)

// Entities lists the source entities in load and export order
var Entities = []string{EntitySalesperson, EntityShipment, EntityCountry, EntityProduct}

// Aggregate table names
const (
	AggregateMonthly     = "monthly"
	AggregateSalesperson = "salesperson"
	AggregateGeography   = "geography"
	AggregateProduct     = "product"
	AggregateStatus      = "status"
)

// Source columns. The exact names are the input contract.
const (
	ColSalesPerson = "Sales Person"
	ColTeam        = "Team"
	ColPicture     = "Picture"

	ColShipmentID  = "Shipment ID"
	ColGeography   = "Geography"
	ColProduct     = "Product"
	ColDate        = "Date"
	ColDeliveredOn = "Delivered On"
	ColSales       = "Sales"
	ColStatus      = "Status"

	ColRegion = "Region"

	ColCategory   = "Category"
	ColCostPerBox = "Cost per Box"
)

// Derived shipment and master columns
const (
	ColYear         = "Year"
	ColMonth        = "Month"
	ColMonthName    = "Month Name"
	ColQuarter      = "Quarter"
	ColWeekday      = "Weekday"
	ColWeek         = "Week"
	ColDeliveryTime = "Delivery Time"
	ColIsLate       = "Is Late"
	ColIsActive     = "Is Active"
	ColIsCompleted  = "Is Completed"
	ColIsReturned   = "Is Returned"
	ColRevenue      = "Revenue"
	ColProfit       = "Profit"
)

// Aggregate measure columns
const (
	ColTotalSales      = "Total Sales"
	ColTotalRevenue    = "Total Revenue"
	ColTotalProfit     = "Total Profit"
	ColShipmentCount   = "Shipment Count"
	ColAvgDeliveryTime = "Avg Delivery Time"
	ColCompletedCount  = "Completed Count"
)

// Shipment status literals
const (
	StatusActive    = "Active"
	StatusCompleted = "Completed"
	StatusReturned  = "Returned"
)

// Required input columns per entity
var (
	SalespersonColumns = []string{ColSalesPerson, ColTeam, ColPicture}
	ShipmentColumns    = []string{ColShipmentID, ColSalesPerson, ColGeography, ColProduct, ColDate, ColDeliveredOn, ColSales, ColStatus}
	CountryColumns     = []string{ColGeography, ColRegion}
	ProductColumns     = []string{ColProduct, ColCategory, ColCostPerBox}
)

// Sources holds the four entity tables of one pipeline run
type Sources struct {
	Salespeople *Table
	Shipments   *Table
	Countries   *Table
	Products    *Table
}

// NamedTable pairs a table with the name it is exported under
type NamedTable struct {
	Name  string
	Table *Table
}

// Named lists the entity tables in export order
func (s Sources) Named() []NamedTable {
	return []NamedTable{
		{Name: EntitySalesperson, Table: s.Salespeople},
		{Name: EntityShipment, Table: s.Shipments},
		{Name: EntityCountry, Table: s.Countries},
		{Name: EntityProduct, Table: s.Products},
	}
}

// Complete reports whether all four tables are present
func (s Sources) Complete() bool {
	return s.Salespeople != nil && s.Shipments != nil && s.Countries != nil && s.Products != nil
}

// Aggregates holds the five summary tables built from the master table
type Aggregates struct {
	Monthly     *Table
	Salesperson *Table
	Geography   *Table
	Product     *Table
	Status      *Table
}

// Named lists the aggregate tables in export order
func (a Aggregates) Named() []NamedTable {
	return []NamedTable{
		{Name: AggregateMonthly, Table: a.Monthly},
		{Name: AggregateSalesperson, Table: a.Salesperson},
		{Name: AggregateGeography, Table: a.Geography},
		{Name: AggregateProduct, Table: a.Product},
		{Name: AggregateStatus, Table: a.Status},
	}
}
