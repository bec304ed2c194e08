package location

// gazetteer lists the place names recognised anywhere in a message.
var gazetteer = []string{
	"tokyo", "london", "paris", "new york", "los angeles", "chicago", "houston", "phoenix",
	"philadelphia", "san antonio", "san diego", "dallas", "san jose", "austin", "jacksonville",
	"fort worth", "columbus", "charlotte", "san francisco", "indianapolis", "seattle", "denver",
	"washington", "boston", "el paso", "nashville", "detroit", "oklahoma city", "portland",
	"las vegas", "memphis", "louisville", "baltimore", "milwaukee", "albuquerque", "tucson",
	"fresno", "sacramento", "mesa", "kansas city", "atlanta", "long beach", "colorado springs",
	"raleigh", "miami", "virginia beach", "omaha", "oakland", "minneapolis", "tulsa", "arlington",
	"tampa", "new orleans", "wichita", "cleveland", "bakersfield", "aurora", "anaheim", "honolulu",
	"santa ana", "corpus christi", "riverside", "lexington", "stockton", "toledo", "st. paul",
	"newark", "greensboro", "plano", "henderson", "lincoln", "buffalo", "jersey city", "chula vista",
	"fort wayne", "orlando", "st. petersburg", "chandler", "laredo", "norfolk", "durham", "madison",
	"lubbock", "irvine", "winston-salem", "glendale", "garland", "hialeah", "reno", "chesapeake",
	"gilbert", "baton rouge", "irving", "scottsdale", "north las vegas", "fremont", "boise",
	"richmond", "san bernardino", "birmingham", "spokane", "rochester", "des moines", "modesto",
	"fayetteville", "tacoma", "oxnard", "fontana", "montgomery", "moreno valley", "shreveport",
	"yonkers", "akron", "huntington beach", "little rock", "augusta", "amarillo", "mobile",
	"grand rapids", "salt lake city", "tallahassee", "huntsville", "grand prairie", "knoxville",
	"worcester", "newport news", "brownsville", "overland park", "santa clarita", "providence",
	"garden grove", "chattanooga", "oceanside", "jackson", "fort lauderdale", "santa rosa",
	"rancho cucamonga", "port st. lucie", "tempe", "ontario", "vancouver", "cape coral",
	"sioux falls", "springfield", "peoria", "pembroke pines", "elk grove", "salem", "lancaster",
	"corona", "eugene", "palmdale", "salinas", "pasadena", "fort collins", "hayward", "pomona",
	"cary", "rockford", "alexandria", "escondido", "mckinney", "joliet", "sunnyvale",
}
