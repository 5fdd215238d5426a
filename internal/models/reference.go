package models

// Cities served by the marketplace.
var Cities = []string{
	"Karachi", "Lahore", "Islamabad", "Rawalpindi", "Faisalabad", "Multan", "Hyderabad", "Quetta",
	"Peshawar", "Gujranwala", "Sialkot", "Bahawalpur", "Sargodha", "Sukkur", "Larkana", "Chiniot",
	"Jhang", "Sheikhupura", "Gujrat", "Kasur", "Rahim Yar Khan", "Sahiwal", "Okara",
	"Wah Cantonment", "Dera Ghazi Khan", "Mirpur Khas", "Nawabshah", "Mingora", "Kamoke",
	"Mandi Bahauddin", "Jhelum", "Sadiqabad", "Khanewal", "Hafizabad", "Kohat", "Jacobabad",
	"Shikarpur", "Muzaffargarh", "Gojra",
}

// PhoneBrands maps each supported brand to its known models.
var PhoneBrands = map[string][]string{
	"Apple": {
		"iPhone 15 Pro Max", "iPhone 15 Pro", "iPhone 15 Plus", "iPhone 15", "iPhone 14 Pro Max",
		"iPhone 14 Pro", "iPhone 14 Plus", "iPhone 14", "iPhone 13 Pro Max", "iPhone 13 Pro",
		"iPhone 13", "iPhone 13 mini", "iPhone 12 Pro Max", "iPhone 12 Pro", "iPhone 12",
		"iPhone 12 mini", "iPhone 11 Pro Max", "iPhone 11 Pro", "iPhone 11", "iPhone XS Max",
		"iPhone XS", "iPhone XR", "iPhone X", "iPhone 8 Plus", "iPhone 8", "iPhone 7 Plus",
		"iPhone 7", "iPhone 6s Plus", "iPhone 6s", "iPhone SE",
	},
	"Samsung": {
		"Galaxy S24 Ultra", "Galaxy S24+", "Galaxy S24", "Galaxy S23 Ultra", "Galaxy S23+",
		"Galaxy S23", "Galaxy S22 Ultra", "Galaxy S22+", "Galaxy S22", "Galaxy S21 Ultra",
		"Galaxy S21+", "Galaxy S21", "Galaxy Note 20 Ultra", "Galaxy Note 20", "Galaxy A54 5G",
		"Galaxy A34 5G", "Galaxy A24", "Galaxy A14", "Galaxy A04s", "Galaxy A03s", "Galaxy M53 5G",
		"Galaxy M33 5G", "Galaxy M13", "Galaxy F23 5G", "Galaxy F13", "Galaxy Z Fold 5",
		"Galaxy Z Flip 5",
	},
	"Xiaomi": {
		"Xiaomi 14 Ultra", "Xiaomi 14 Pro", "Xiaomi 14", "Xiaomi 13T Pro", "Xiaomi 13T",
		"Xiaomi 13 Pro", "Xiaomi 13", "Xiaomi 12T Pro", "Xiaomi 12T", "Xiaomi 12 Pro", "Xiaomi 12",
		"Redmi Note 13 Pro+", "Redmi Note 13 Pro", "Redmi Note 13", "Redmi Note 12 Pro+",
		"Redmi Note 12 Pro", "Redmi Note 12", "Redmi Note 11 Pro+", "Redmi Note 11 Pro",
		"Redmi Note 11", "Redmi 12C", "Redmi 12", "Redmi A2+", "POCO X6 Pro", "POCO X6",
		"POCO M6 Pro", "POCO F5 Pro", "POCO F5",
	},
	"Oppo": {
		"Find X7 Ultra", "Find X7 Pro", "Find X7", "Find X6 Pro", "Find X6", "Reno 11 Pro",
		"Reno 11", "Reno 10 Pro+", "Reno 10 Pro", "Reno 10", "A98 5G", "A78 5G", "A58", "A38", "A18",
		"A17k", "A16k", "A16", "F25 Pro 5G", "F23 5G", "F21 Pro 5G",
	},
	"Vivo": {
		"X100 Pro", "X100", "X90 Pro", "X90", "V30 Pro", "V30", "V29 Pro", "V29", "Y100", "Y56 5G",
		"Y36", "Y27", "Y17", "Y16", "Y15s", "Y02s", "T2 Pro 5G", "T2 5G", "T1 Pro 5G", "T1 5G",
	},
	"OnePlus": {
		"OnePlus 12", "OnePlus 11", "OnePlus 10 Pro", "OnePlus 10T", "OnePlus 9 Pro", "OnePlus 9",
		"OnePlus Nord 3 5G", "OnePlus Nord CE 3", "OnePlus Nord CE 2", "OnePlus Nord N30 5G",
		"OnePlus Nord N20 5G",
	},
	"Realme": {
		"GT 5 Pro", "GT 5", "GT 3", "GT Neo 6", "GT Neo 5", "12 Pro+", "12 Pro", "12", "C67", "C65",
		"C55", "C53", "C35", "C33", "C30s", "Narzo 70 Pro", "Narzo 70", "Narzo 60 Pro", "Narzo 60",
	},
	"Infinix": {
		"Note 40 Pro", "Note 40", "Note 30 Pro", "Note 30", "Hot 40 Pro", "Hot 40", "Hot 30",
		"Smart 8 Pro", "Smart 8", "Smart 7", "Zero 30",
	},
	"Tecno": {
		"Camon 30 Pro", "Camon 30", "Camon 20 Pro", "Camon 20", "Spark 20 Pro", "Spark 20",
		"Spark 10 Pro", "Spark 10", "Pop 8", "Pop 7 Pro",
	},
}

var StorageOptions = []string{"32GB", "64GB", "128GB", "256GB", "512GB", "1TB"}

var ConditionOptions = []string{"New", "Like New", "Good", "Fair", "Poor"}
