package domain

// FactoryCodeAlias maps a known alternate spelling of a factory code to its
// canonical form.
type FactoryCodeAlias struct {
	Alias       string `json:"alias" gorm:"primaryKey;type:text"`
	FactoryCode string `json:"factory_code" gorm:"type:text;not null"`
}

// TableName sets the database table name.
func (FactoryCodeAlias) TableName() string { return "factory_code_alias" }

// EmployeeIDAlias maps a known alternate spelling of an employee ID to its
// canonical form.
type EmployeeIDAlias struct {
	Alias      string `json:"alias" gorm:"primaryKey;type:text"`
	EmployeeID string `json:"employee_id" gorm:"type:text;not null"`
}

// TableName sets the database table name.
func (EmployeeIDAlias) TableName() string { return "employee_id_alias" }
