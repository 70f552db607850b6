package domain

const (
	// ZeroAddress is the null/burn sentinel: transfers from it are mints,
	// transfers to it are burns
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)
