package domain

var districts = []string{
	"Bagerhat", "Bandarban", "Barguna", "Barishal", "Bhola", "Bogura",
	"Brahmanbaria", "Chandpur", "Chapainawabganj", "Chattogram", "Chuadanga",
	"Cox's Bazar", "Cumilla", "Dhaka", "Dinajpur", "Faridpur", "Feni",
	"Gaibandha", "Gazipur", "Gopalganj", "Habiganj", "Jamalpur", "Jashore",
	"Jhalokathi", "Jhenaidah", "Joypurhat", "Khagrachhari", "Khulna",
	"Kishoreganj", "Kurigram", "Kushtia", "Lakshmipur", "Lalmonirhat",
	"Madaripur", "Magura", "Manikganj", "Meherpur", "Moulvibazar",
	"Munshiganj", "Mymensingh", "Naogaon", "Narail", "Narayanganj",
	"Narsingdi", "Natore", "Netrokona", "Nilphamari", "Noakhali", "Pabna",
	"Panchagarh", "Patuakhali", "Pirojpur", "Rajbari", "Rajshahi",
	"Rangamati", "Rangpur", "Satkhira", "Shariatpur", "Sherpur", "Sirajganj",
	"Sunamganj", "Sylhet", "Tangail", "Thakurgaon",
}

// Districts returns the administrative regions offered on the checkout form.
func Districts() []string {
	return append([]string(nil), districts...)
}
