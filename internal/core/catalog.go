package core

// Sentinel values used by clients for "no restriction" selections.
const (
	AllCategories = "Semua Kategori"
	AllDonors     = "Semua Penyumbang"
)

// Categories offered by the entry form.
var Categories = []string{
	"Infaq Jumat",
	"Infaq Harian",
	"Infaq Bulanan",
	"Donasi Khusus",
	"Pemeliharaan",
	"Kegiatan Hari Besar",
	"Lain-lain",
}

// Donors are the known contributors; an income description is usually one
// of these names.
var Donors = []string{
	"Abjiatul Astiani, SE",
	"Ali Patau, SE",
	"Dandi Septian, S.Pd.",
	"Diana Rita, S. Pd",
	"Didi Rosady, S.Pd",
	"Disa Septiani Robiah, S.Pd.",
	"Dr. Marwan Toni, S.Hut, M.Pd",
	"Duwi Andriyani, S.Pd",
	"Eko Randy Yusuf, S.Pd.",
	"Eli Septiana, S.Pd.",
	"Elisia Rosalinda Manullang, S.Pd",
	"Frida Norjayanti, S. Pd",
	"Hariati, S.Pd.I",
	"Hayrul Syam, S.Pd.",
	"Isroiyah, S.Pd.I",
	"Jumratul Akbah, S.Pd.",
	"Kartini, SE",
	"Laila Sari, S.Pd.",
	"Lisa Carolina, S.Pd.",
	"Maria Floriyanti Nogo Weluk, S.Ag.",
	"Mariasa, S.Pd.I",
	"Marten, S.Pd",
	"Muhamad Fahmi Bisma, S.Pd.",
	"Muhammad Syahrul Sani, S.Pd.",
	"Muhlis, S.Pd.I., M.Pd.",
	"Noor Hasinah Khalid, S.Pd.",
	"Noor Hidayat, S.Pd",
	"Norhasanah, SE",
	"Ramlah, S.Pd.",
	"Robi Ardiah Murti Murhanuddin, S.Pd.",
	"Rudianto",
	"Siti Asaniyati, S.Pd.",
	"Siti Nurwana, S.Pd.",
	"Suharta Nurul Mulhikmah, S.Pd.I",
	"Tresna Yulianti, S.Sos.",
	"Yuli Sri Hartati, S.Pd.",
	"Hamba Allah",
}
