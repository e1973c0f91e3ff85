package airport

import "github.com/AmeyaMprojects/pilot-brief/internal/geo"

// seedAirports is the built-in directory used when no database is configured.
var seedAirports = []Airport{
	{Code: "KABE", Name: "ABE Airport", Coordinate: geo.Coordinate{Lat: 40.6521, Lng: -75.4408}},
	{Code: "KABQ", Name: "ABQ Airport", Coordinate: geo.Coordinate{Lat: 35.0402, Lng: -106.6092}},
	{Code: "KACY", Name: "ACY Airport", Coordinate: geo.Coordinate{Lat: 39.4576, Lng: -74.5772}},
	{Code: "KAGS", Name: "AGS Airport", Coordinate: geo.Coordinate{Lat: 33.3699, Lng: -81.9645}},
	{Code: "KALB", Name: "ALB Airport", Coordinate: geo.Coordinate{Lat: 42.7483, Lng: -73.8017}},
	{Code: "KASE", Name: "ASE Airport", Coordinate: geo.Coordinate{Lat: 39.2232, Lng: -106.8687}},
	{Code: "KATL", Name: "ATL Airport", Coordinate: geo.Coordinate{Lat: 33.6367, Lng: -84.4281}},
	{Code: "KAUS", Name: "AUS Airport", Coordinate: geo.Coordinate{Lat: 30.1975, Lng: -97.6664}},
	{Code: "KAVL", Name: "AVL Airport", Coordinate: geo.Coordinate{Lat: 35.4362, Lng: -82.5418}},
	{Code: "KBHM", Name: "BHM Airport", Coordinate: geo.Coordinate{Lat: 33.5629, Lng: -86.7535}},
	{Code: "KBIL", Name: "BIL Airport", Coordinate: geo.Coordinate{Lat: 45.8077, Lng: -108.5428}},
	{Code: "KBIS", Name: "BIS Airport", Coordinate: geo.Coordinate{Lat: 46.7727, Lng: -100.7467}},
	{Code: "KBNA", Name: "BNA Airport", Coordinate: geo.Coordinate{Lat: 36.1245, Lng: -86.6782}},
	{Code: "KBOI", Name: "BOI Airport", Coordinate: geo.Coordinate{Lat: 43.5644, Lng: -116.2228}},
	{Code: "KBOS", Name: "BOS Airport", Coordinate: geo.Coordinate{Lat: 42.3656, Lng: -71.0096}},
	{Code: "KBTR", Name: "BTR Airport", Coordinate: geo.Coordinate{Lat: 30.5328, Lng: -91.1496}},
	{Code: "KBTV", Name: "BTV Airport", Coordinate: geo.Coordinate{Lat: 44.4719, Lng: -73.1532}},
	{Code: "KBUF", Name: "BUF Airport", Coordinate: geo.Coordinate{Lat: 42.9405, Lng: -78.7322}},
	{Code: "KBUR", Name: "BUR Airport", Coordinate: geo.Coordinate{Lat: 34.2007, Lng: -118.3585}},
	{Code: "KBWI", Name: "BWI Airport", Coordinate: geo.Coordinate{Lat: 39.1775, Lng: -76.6684}},
	{Code: "KBZN", Name: "BZN Airport", Coordinate: geo.Coordinate{Lat: 45.7769, Lng: -111.1603}},
	{Code: "KCAE", Name: "CAE Airport", Coordinate: geo.Coordinate{Lat: 33.9388, Lng: -81.1195}},
	{Code: "KCHA", Name: "CHA Airport", Coordinate: geo.Coordinate{Lat: 35.0353, Lng: -85.2038}},
	{Code: "KCHS", Name: "CHS Airport", Coordinate: geo.Coordinate{Lat: 32.8986, Lng: -80.0405}},
	{Code: "KCID", Name: "CID Airport", Coordinate: geo.Coordinate{Lat: 41.8847, Lng: -91.7108}},
	{Code: "KCLE", Name: "CLE Airport", Coordinate: geo.Coordinate{Lat: 41.4117, Lng: -81.8498}},
	{Code: "KCLT", Name: "CLT Airport", Coordinate: geo.Coordinate{Lat: 35.2144, Lng: -80.9473}},
	{Code: "KCMH", Name: "CMH Airport", Coordinate: geo.Coordinate{Lat: 39.9980, Lng: -82.8919}},
	{Code: "KCOS", Name: "COS Airport", Coordinate: geo.Coordinate{Lat: 38.8058, Lng: -104.7006}},
	{Code: "KCRW", Name: "CRW Airport", Coordinate: geo.Coordinate{Lat: 38.3731, Lng: -81.5934}},
	{Code: "KCVG", Name: "CVG Airport", Coordinate: geo.Coordinate{Lat: 39.0488, Lng: -84.6678}},
	{Code: "KDAB", Name: "DAB Airport", Coordinate: geo.Coordinate{Lat: 29.1799, Lng: -81.0581}},
	{Code: "KDAL", Name: "DAL Airport", Coordinate: geo.Coordinate{Lat: 32.8471, Lng: -96.8518}},
	{Code: "KDAY", Name: "DAY Airport", Coordinate: geo.Coordinate{Lat: 39.9024, Lng: -84.2194}},
	{Code: "KDCA", Name: "DCA Airport", Coordinate: geo.Coordinate{Lat: 38.8521, Lng: -77.0377}},
	{Code: "KDEN", Name: "DEN Airport", Coordinate: geo.Coordinate{Lat: 39.8561, Lng: -104.6737}},
	{Code: "KDFW", Name: "DFW Airport", Coordinate: geo.Coordinate{Lat: 32.8998, Lng: -97.0403}},
	{Code: "KDSM", Name: "DSM Airport", Coordinate: geo.Coordinate{Lat: 41.5340, Lng: -93.6631}},
	{Code: "KDTW", Name: "DTW Airport", Coordinate: geo.Coordinate{Lat: 42.2124, Lng: -83.3534}},
	{Code: "KELP", Name: "ELP Airport", Coordinate: geo.Coordinate{Lat: 31.8072, Lng: -106.3776}},
	{Code: "KEUG", Name: "EUG Airport", Coordinate: geo.Coordinate{Lat: 44.1246, Lng: -123.2117}},
	{Code: "KEWR", Name: "EWR Airport", Coordinate: geo.Coordinate{Lat: 40.6925, Lng: -74.1687}},
	{Code: "KFAR", Name: "FAR Airport", Coordinate: geo.Coordinate{Lat: 46.9207, Lng: -96.8158}},
	{Code: "KFAT", Name: "FAT Airport", Coordinate: geo.Coordinate{Lat: 36.7762, Lng: -119.7181}},
	{Code: "KFLL", Name: "FLL Airport", Coordinate: geo.Coordinate{Lat: 26.0742, Lng: -80.1506}},
	{Code: "KFNT", Name: "FNT Airport", Coordinate: geo.Coordinate{Lat: 42.9655, Lng: -83.7436}},
	{Code: "KFSD", Name: "FSD Airport", Coordinate: geo.Coordinate{Lat: 43.5820, Lng: -96.7420}},
	{Code: "KGEG", Name: "GEG Airport", Coordinate: geo.Coordinate{Lat: 47.6198, Lng: -117.5336}},
	{Code: "KGRR", Name: "GRR Airport", Coordinate: geo.Coordinate{Lat: 42.8808, Lng: -85.5228}},
	{Code: "KGSO", Name: "GSO Airport", Coordinate: geo.Coordinate{Lat: 36.0978, Lng: -79.9373}},
	{Code: "KGSP", Name: "GSP Airport", Coordinate: geo.Coordinate{Lat: 34.8957, Lng: -82.2189}},
	{Code: "KHOU", Name: "HOU Airport", Coordinate: geo.Coordinate{Lat: 29.6455, Lng: -95.2789}},
	{Code: "KHPN", Name: "HPN Airport", Coordinate: geo.Coordinate{Lat: 41.0670, Lng: -73.7076}},
	{Code: "KIAD", Name: "IAD Airport", Coordinate: geo.Coordinate{Lat: 38.9531, Lng: -77.4565}},
	{Code: "KICT", Name: "ICT Airport", Coordinate: geo.Coordinate{Lat: 37.6499, Lng: -97.4331}},
	{Code: "KILM", Name: "ILM Airport", Coordinate: geo.Coordinate{Lat: 34.2706, Lng: -77.9026}},
	{Code: "KIND", Name: "IND Airport", Coordinate: geo.Coordinate{Lat: 39.7173, Lng: -86.2944}},
	{Code: "KISP", Name: "ISP Airport", Coordinate: geo.Coordinate{Lat: 40.7952, Lng: -73.1002}},
	{Code: "KJAC", Name: "JAC Airport", Coordinate: geo.Coordinate{Lat: 43.6073, Lng: -110.7377}},
	{Code: "KJAX", Name: "JAX Airport", Coordinate: geo.Coordinate{Lat: 30.4941, Lng: -81.6879}},
	{Code: "KJFK", Name: "JFK Airport", Coordinate: geo.Coordinate{Lat: 40.6413, Lng: -73.7781}},
	{Code: "KLAS", Name: "LAS Airport", Coordinate: geo.Coordinate{Lat: 36.0840, Lng: -115.1537}},
	{Code: "KLAX", Name: "LAX Airport", Coordinate: geo.Coordinate{Lat: 33.9425, Lng: -118.4081}},
	{Code: "KLEX", Name: "LEX Airport", Coordinate: geo.Coordinate{Lat: 38.0365, Lng: -84.6061}},
	{Code: "KLGA", Name: "LGA Airport", Coordinate: geo.Coordinate{Lat: 40.7769, Lng: -73.8740}},
	{Code: "KLGB", Name: "LGB Airport", Coordinate: geo.Coordinate{Lat: 33.8177, Lng: -118.1516}},
	{Code: "KLIT", Name: "LIT Airport", Coordinate: geo.Coordinate{Lat: 34.7294, Lng: -92.2243}},
	{Code: "KMCI", Name: "MCI Airport", Coordinate: geo.Coordinate{Lat: 39.2976, Lng: -94.7139}},
	{Code: "KMCO", Name: "MCO Airport", Coordinate: geo.Coordinate{Lat: 28.4294, Lng: -81.3089}},
	{Code: "KMDW", Name: "MDW Airport", Coordinate: geo.Coordinate{Lat: 41.7868, Lng: -87.7522}},
	{Code: "KMEM", Name: "MEM Airport", Coordinate: geo.Coordinate{Lat: 35.0424, Lng: -89.9767}},
	{Code: "KMIA", Name: "MIA Airport", Coordinate: geo.Coordinate{Lat: 25.7959, Lng: -80.2870}},
	{Code: "KMKE", Name: "MKE Airport", Coordinate: geo.Coordinate{Lat: 42.9472, Lng: -87.8966}},
	{Code: "KMSP", Name: "MSP Airport", Coordinate: geo.Coordinate{Lat: 44.8848, Lng: -93.2223}},
	{Code: "KOAK", Name: "OAK Airport", Coordinate: geo.Coordinate{Lat: 37.7214, Lng: -122.2208}},
	{Code: "KOKC", Name: "OKC Airport", Coordinate: geo.Coordinate{Lat: 35.3931, Lng: -97.6007}},
	{Code: "KOMA", Name: "OMA Airport", Coordinate: geo.Coordinate{Lat: 41.3032, Lng: -95.8941}},
	{Code: "KONT", Name: "ONT Airport", Coordinate: geo.Coordinate{Lat: 34.0560, Lng: -117.6012}},
	{Code: "KORD", Name: "ORD Airport", Coordinate: geo.Coordinate{Lat: 41.9742, Lng: -87.9073}},
	{Code: "KORF", Name: "ORF Airport", Coordinate: geo.Coordinate{Lat: 36.8946, Lng: -76.2012}},
	{Code: "KPBI", Name: "PBI Airport", Coordinate: geo.Coordinate{Lat: 26.6832, Lng: -80.0956}},
	{Code: "KPDX", Name: "PDX Airport", Coordinate: geo.Coordinate{Lat: 45.5898, Lng: -122.5951}},
	{Code: "KPHL", Name: "PHL Airport", Coordinate: geo.Coordinate{Lat: 39.8729, Lng: -75.2437}},
	{Code: "KPHX", Name: "PHX Airport", Coordinate: geo.Coordinate{Lat: 33.4373, Lng: -112.0078}},
	{Code: "KPIT", Name: "PIT Airport", Coordinate: geo.Coordinate{Lat: 40.4915, Lng: -80.2329}},
	{Code: "KRDU", Name: "RDU Airport", Coordinate: geo.Coordinate{Lat: 35.8776, Lng: -78.7875}},
	{Code: "KRIC", Name: "RIC Airport", Coordinate: geo.Coordinate{Lat: 37.5052, Lng: -77.3197}},
	{Code: "KRNO", Name: "RNO Airport", Coordinate: geo.Coordinate{Lat: 39.4991, Lng: -119.7681}},
	{Code: "KROC", Name: "ROC Airport", Coordinate: geo.Coordinate{Lat: 43.1189, Lng: -77.6724}},
	{Code: "KRSW", Name: "RSW Airport", Coordinate: geo.Coordinate{Lat: 26.5362, Lng: -81.7552}},
	{Code: "KSAN", Name: "SAN Airport", Coordinate: geo.Coordinate{Lat: 32.7336, Lng: -117.1897}},
	{Code: "KSAT", Name: "SAT Airport", Coordinate: geo.Coordinate{Lat: 29.5337, Lng: -98.4698}},
	{Code: "KSAV", Name: "SAV Airport", Coordinate: geo.Coordinate{Lat: 32.1276, Lng: -81.2021}},
	{Code: "KSDF", Name: "SDF Airport", Coordinate: geo.Coordinate{Lat: 38.1744, Lng: -85.7364}},
	{Code: "KSEA", Name: "SEA Airport", Coordinate: geo.Coordinate{Lat: 47.4502, Lng: -122.3088}},
	{Code: "KSFO", Name: "SFO Airport", Coordinate: geo.Coordinate{Lat: 37.6213, Lng: -122.3790}},
	{Code: "KSHV", Name: "SHV Airport", Coordinate: geo.Coordinate{Lat: 32.4466, Lng: -93.8256}},
	{Code: "KSJC", Name: "SJC Airport", Coordinate: geo.Coordinate{Lat: 37.3626, Lng: -121.9291}},
	{Code: "KSLC", Name: "SLC Airport", Coordinate: geo.Coordinate{Lat: 40.7899, Lng: -111.9791}},
	{Code: "KSMF", Name: "SMF Airport", Coordinate: geo.Coordinate{Lat: 38.6954, Lng: -121.5908}},
	{Code: "KSNA", Name: "SNA Airport", Coordinate: geo.Coordinate{Lat: 33.6757, Lng: -117.8678}},
	{Code: "KSRQ", Name: "SRQ Airport", Coordinate: geo.Coordinate{Lat: 27.3954, Lng: -82.5544}},
	{Code: "KSTL", Name: "STL Airport", Coordinate: geo.Coordinate{Lat: 38.7487, Lng: -90.3700}},
	{Code: "KSYR", Name: "SYR Airport", Coordinate: geo.Coordinate{Lat: 43.1112, Lng: -76.1063}},
	{Code: "KTOL", Name: "TOL Airport", Coordinate: geo.Coordinate{Lat: 41.5868, Lng: -83.8078}},
	{Code: "KTPA", Name: "TPA Airport", Coordinate: geo.Coordinate{Lat: 27.9755, Lng: -82.5332}},
	{Code: "KTUS", Name: "TUS Airport", Coordinate: geo.Coordinate{Lat: 32.1161, Lng: -110.9411}},
	{Code: "KTYS", Name: "TYS Airport", Coordinate: geo.Coordinate{Lat: 35.8111, Lng: -83.9940}},
	{Code: "KXNA", Name: "XNA Airport", Coordinate: geo.Coordinate{Lat: 36.2818, Lng: -94.3069}},
}
