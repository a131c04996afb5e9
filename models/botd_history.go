package models

// BotdHistory records which bean was the bean of the day on a given date.
// Table: botd_history
// Date is stored as YYYY-MM-DD and carries a UNIQUE constraint: exactly one
// selection may exist per calendar day, and that constraint is what arbitrates
// concurrent first-of-day selections. Rows are append-only.
type BotdHistory struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	BeanID uint   `gorm:"not null;index:idx_botd_history_bean_id" json:"bean_id"`
	Bean   Bean   `gorm:"foreignKey:BeanID" json:"-"`
	Date   string `gorm:"size:10;not null;uniqueIndex:uk_botd_history_date" json:"date"`
}

func (BotdHistory) TableName() string {
	return "botd_history"
}

// BotdHistoryFilter represents filter criteria for history queries
type BotdHistoryFilter struct {
	ID     *uint
	BeanID *uint
	Date   *string
}
